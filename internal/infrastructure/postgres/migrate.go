package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// sequenceTables tablas con BIGSERIAL cuya secuencia se realinea con MAX(id) al migrar.
var sequenceTables = []string{"items", "log_entries"}

// Migrate aplica el esquema embebido y realinea las secuencias de ID con los datos existentes
// (filas importadas con ID explícito). Tras migrar, el siguiente ID es MAX(id)+1, o 1 si la tabla está vacía.
func Migrate(ctx context.Context, q Querier) error {
	for _, stmt := range splitStatements(schemaSQL) {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	for _, table := range sequenceTables {
		if _, err := q.Exec(ctx, realignSequenceSQL(table)); err != nil {
			return fmt.Errorf("realign %s sequence: %w", table, err)
		}
	}
	return nil
}

// realignSequenceSQL setval(seq, max, true) deja nextval en max+1; con la tabla vacía setval(seq, 1, false) deja 1.
func realignSequenceSQL(table string) string {
	return fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), GREATEST((SELECT COALESCE(MAX(id), 0) FROM %[1]s), 1), EXISTS (SELECT 1 FROM %[1]s))`,
		table,
	)
}

// splitStatements separa el script por ';' ignorando líneas de comentario.
func splitStatements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	var out []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
