// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package schema

// CapitulosTable represents the 'capitulos' table
type CapitulosTable struct {
	Table          string
	ID             string
	MangaID        string
	Numero         string
	Titulo         string
	DataPublicacao string
	EditadoPor     string
	CreatedAt      string
	UpdatedAt      string
}

// Capitulos is the schema definition for the capitulos table
var Capitulos = CapitulosTable{
	Table:          "capitulos",
	ID:             "id",
	MangaID:        "manga_id",
	Numero:         "numero",
	Titulo:         "titulo",
	DataPublicacao: "data_publicacao",
	EditadoPor:     "editado_por",
	CreatedAt:      "created_at",
	UpdatedAt:      "updated_at",
}

// UniqueMangaNumero is the name of the unique constraint on (manga_id, numero).
// Repositories use it to discriminate which uniqueness rule a SQLSTATE 23505
// violation refers to.
const UniqueMangaNumero = "capitulos_manga_id_numero_key"

func (t CapitulosTable) Columns() []string {
	return []string{
		t.ID, t.MangaID, t.Numero, t.Titulo, t.DataPublicacao,
		t.EditadoPor, t.CreatedAt, t.UpdatedAt,
	}
}
