package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

// OpenInvoice is one receivable eligible for payment matching. Rows are
// synced from the billing system; matching reads them through the ledger
// snapshot rather than per-query.
type OpenInvoice struct{ ent.Schema }

func (OpenInvoice) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "open_invoices"},
	}
}

func (OpenInvoice) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("invoice_id").NotEmpty().Unique(),
		field.String("invoice_number").NotEmpty(),
		field.String("customer_name").NotEmpty(),
		field.Float("amount").
			SchemaType(map[string]string{dialect.Postgres: "numeric(14,2)"}),
		field.String("due_date").Optional(),
		field.String("subsidiary").Optional(),
		field.String("memo").Optional(),
		field.String("status").Optional(),
		field.String("account").Optional(),
		field.Time("date_created").Optional(),
		field.Time("synced_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (OpenInvoice) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("invoice_number"),
		index.Fields("customer_name"),
		index.Fields("amount"),
	}
}
