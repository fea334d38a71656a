// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package schema

// PaginasTable represents the 'paginas' table
type PaginasTable struct {
	Table      string
	ID         string
	CapituloID string
	Numero     string
	Imagem     string
	Legenda    string
	EditadoPor string
	CreatedAt  string
	UpdatedAt  string
}

// Paginas is the schema definition for the paginas table
var Paginas = PaginasTable{
	Table:      "paginas",
	ID:         "id",
	CapituloID: "capitulo_id",
	Numero:     "numero",
	Imagem:     "imagem",
	Legenda:    "legenda",
	EditadoPor: "editado_por",
	CreatedAt:  "created_at",
	UpdatedAt:  "updated_at",
}

// UniqueCapituloNumero is the name of the unique constraint on
// (capitulo_id, numero). It is declared DEFERRABLE INITIALLY IMMEDIATE so a
// reorder can defer the check to commit while plain inserts still fail fast.
const UniqueCapituloNumero = "paginas_capitulo_id_numero_key"

func (t PaginasTable) Columns() []string {
	return []string{
		t.ID, t.CapituloID, t.Numero, t.Imagem, t.Legenda,
		t.EditadoPor, t.CreatedAt, t.UpdatedAt,
	}
}
