// seed_catalog gera o script SQL que popula o catálogo de tipos de obrigação
// a partir de data/obligation_types.csv.
//
// Uso: go run ./cmd/seed_catalog [caminho/obligation_types.csv]
// Por padrão busca data/obligation_types.csv na raiz do módulo.
// Escreve: internal/infrastructure/postgres/migrations/002_seed_obligation_types.up.sql
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const header = `-- Catálogo inicial de tipos de obrigação.
-- Regenerado por cmd/seed_catalog a partir de data/obligation_types.csv.

INSERT INTO obligation_types
    (id, code, name, description,
     applies_to_comercio, applies_to_servico, applies_to_industria, applies_to_mei,
     applies_to_simples, applies_to_presumido, applies_to_real,
     recurrence, due_day, due_month, default_amount, active, created_at, updated_at)
VALUES
`

func main() {
	moduleRoot := findModuleRoot()

	csvPath := filepath.Join(moduleRoot, "data", "obligation_types.csv")
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 15

	// Descarta o cabeçalho
	if _, err := r.Read(); err != nil {
		fmt.Fprintf(os.Stderr, "ler cabeçalho: %v\n", err)
		os.Exit(1)
	}

	var rows []string
	var codes []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "ler CSV: %v\n", err)
			os.Exit(1)
		}
		id, code, name, desc := rec[0], rec[1], rec[2], rec[3]
		flags := make([]string, 7)
		for i, v := range rec[4:11] {
			flags[i] = sqlBool(v)
		}
		recurrence := rec[11]
		dueDay := sqlNullInt(rec[12])
		dueMonth := sqlNullInt(rec[13])
		amount := sqlNullNumeric(rec[14])

		rows = append(rows, fmt.Sprintf("    ('%s', '%s', '%s', '%s', %s, '%s', %s, %s, %s, TRUE, NOW(), NOW())",
			id, escapeSQL(code), escapeSQL(name), escapeSQL(desc),
			strings.Join(flags, ", "), recurrence, dueDay, dueMonth, amount))
		codes = append(codes, code)
	}

	upPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_obligation_types.up.sql")
	up := header + strings.Join(rows, ",\n") + "\nON CONFLICT (code) DO NOTHING;\n"
	if err := os.WriteFile(upPath, []byte(up), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "escrever migração: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Gerado %s: %d tipos (%s...)\n", upPath, len(codes), strings.Join(codes[:min(3, len(codes))], ", "))
}

func sqlBool(v string) string {
	if v == "1" {
		return "TRUE"
	}
	return "FALSE"
}

func sqlNullInt(v string) string {
	if strings.TrimSpace(v) == "" {
		return "NULL"
	}
	return v
}

func sqlNullNumeric(v string) string {
	if strings.TrimSpace(v) == "" {
		return "NULL"
	}
	return v
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
