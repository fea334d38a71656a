// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

// Package schema centralizes table and column identifiers for the relational
// model. Repositories compose queries from these definitions instead of
// scattering string literals, so a rename touches exactly one file.
package schema

// MangasTable represents the 'mangas' table
type MangasTable struct {
	Table         string
	ID            string
	Titulo        string
	Slug          string
	Autor         string
	Generos       string
	Status        string
	Visualizacoes string
	Capa          string
	DataAdicao    string
	EditadoPor    string
	UpdatedAt     string
}

// Mangas is the schema definition for the mangas table
var Mangas = MangasTable{
	Table:         "mangas",
	ID:            "id",
	Titulo:        "titulo",
	Slug:          "slug",
	Autor:         "autor",
	Generos:       "generos",
	Status:        "status",
	Visualizacoes: "visualizacoes",
	Capa:          "capa",
	DataAdicao:    "data_adicao",
	EditadoPor:    "editado_por",
	UpdatedAt:     "updated_at",
}

func (t MangasTable) Columns() []string {
	return []string{
		t.ID, t.Titulo, t.Slug, t.Autor, t.Generos, t.Status,
		t.Visualizacoes, t.Capa, t.DataAdicao, t.EditadoPor, t.UpdatedAt,
	}
}
