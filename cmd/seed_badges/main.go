// seed_badges genera un script SQL para cargar badges a partir de un export CSV de otro sistema
// (identifier;name;role). Normaliza identificadores y roles como lo hace la API.
//
// Uso: go run ./cmd/seed_badges --in badges.csv --out seed_badges.sql --dialect postgres
// También acepta las rutas como argumentos posicionales. El CSV puede venir en UTF-8,
// ISO-8859-1 o Windows-1252 (exports de Excel).
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/rfid-access-api/internal/application/badge"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
)

type seedBadge struct {
	identifier string
	name       string
	role       int16
}

type options struct {
	in      string
	out     string
	dialect string
	charset string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("seed_badges", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.in, "in", "i", "badges.csv", "CSV de entrada (identifier;name;role)")
	fs.StringVarP(&opts.out, "out", "o", "seed_badges.sql", "script SQL de salida")
	fs.StringVarP(&opts.dialect, "dialect", "d", "postgres", "motor destino: postgres, mysql o sqlite")
	fs.StringVar(&opts.charset, "charset", "auto", "codificación del CSV: auto, utf8, windows1252 o latin1")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 && !fs.Changed("in") {
		opts.in = fs.Arg(0)
	}
	if fs.NArg() > 1 && !fs.Changed("out") {
		opts.out = fs.Arg(1)
	}
	opts.dialect = strings.ToLower(opts.dialect)
	switch opts.dialect {
	case "postgres", "mysql", "sqlite":
	default:
		return opts, fmt.Errorf("dialect inválido %q", opts.dialect)
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Argumentos: %v\n", err)
		return 2
	}

	raw, err := os.ReadFile(opts.in)
	if err != nil {
		fmt.Fprintf(stderr, "Leer CSV: %v\n", err)
		return 1
	}
	r, err := decodeWithCharset(raw, opts.charset)
	if err != nil {
		fmt.Fprintf(stderr, "Codificación: %v\n", err)
		return 2
	}
	badges, skipped, err := parseCSV(r)
	if err != nil {
		fmt.Fprintf(stderr, "Procesar CSV: %v\n", err)
		return 1
	}
	for _, s := range skipped {
		fmt.Fprintf(stderr, "omitida: %v\n", s)
	}

	out, err := os.Create(opts.out)
	if err != nil {
		fmt.Fprintf(stderr, "Crear archivo: %v\n", err)
		return 1
	}
	defer out.Close()

	if err := writeSQL(out, badges, time.Now().UTC(), opts.dialect); err != nil {
		fmt.Fprintf(stderr, "Escribir SQL: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Generado %s (%s): %d badges, %d filas omitidas\n", opts.out, opts.dialect, len(badges), len(skipped))
	return 0
}

// decodeWithCharset auto delega en decodeCSV.
func decodeWithCharset(raw []byte, charset string) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "auto":
		return decodeCSV(raw), nil
	case "utf8", "utf-8":
		return bytes.NewReader(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))), nil
	case "windows1252", "cp1252":
		return transform.NewReader(bytes.NewReader(raw), charmap.Windows1252.NewDecoder()), nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset no soportado %q", charset)
}

// decodeCSV devuelve un lector UTF-8. Sin BOM y con bytes no UTF-8 se asume Windows-1252,
// superconjunto imprimible de ISO-8859-1.
func decodeCSV(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.Windows1252.NewDecoder())
}

// parseCSV lee filas identifier;name;role. La cabecera es opcional. Las filas inválidas o
// repetidas (mismo identificador normalizado) se omiten y se informan.
func parseCSV(r io.Reader) ([]seedBadge, []error, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		badges  []seedBadge
		skipped []error
		seen    = make(map[string]bool)
		line    = 0
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line++
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) < 3 {
			skipped = append(skipped, fmt.Errorf("línea %d: se esperan 3 columnas", line))
			continue
		}
		id, err := badge.ValidIdentifier(rec[0])
		if err != nil {
			skipped = append(skipped, fmt.Errorf("línea %d: %w", line, err))
			continue
		}
		name, err := badge.ValidName(rec[1])
		if err != nil {
			skipped = append(skipped, fmt.Errorf("línea %d: %w", line, err))
			continue
		}
		role, err := entity.ParseRole(rec[2])
		if err != nil {
			skipped = append(skipped, fmt.Errorf("línea %d: %w", line, err))
			continue
		}
		if seen[id] {
			skipped = append(skipped, fmt.Errorf("línea %d: identificador repetido %q", line, id))
			continue
		}
		seen[id] = true
		code, _ := role.Code()
		badges = append(badges, seedBadge{identifier: id, name: name, role: code})
	}
	return badges, skipped, nil
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "identifier" || first == "uid" || first == "badge"
}

// writeSQL un INSERT por badge; los ya existentes no se modifican.
// MySQL y SQLite guardan created_at como texto de ancho fijo en UTC.
func writeSQL(w io.Writer, badges []seedBadge, now time.Time, dialect string) error {
	var b strings.Builder
	b.WriteString("-- Carga inicial de badges (" + dialect + ")\n")
	b.WriteString("-- Generado por cmd/seed_badges\n\n")
	ts := now.Format(time.RFC3339)
	insert, conflict := "INSERT INTO", "ON CONFLICT (identifier) DO NOTHING;"
	switch dialect {
	case "mysql":
		ts = now.UTC().Format("2006-01-02 15:04:05.000000")
		insert, conflict = "INSERT IGNORE INTO", ";"
	case "sqlite":
		ts = now.UTC().Format("2006-01-02 15:04:05.000000")
	}
	for _, s := range badges {
		fmt.Fprintf(&b, "%s badges (identifier, name, role, created_at) VALUES ('%s', '%s', %d, '%s')\n",
			insert, escapeSQL(s.identifier, dialect), escapeSQL(s.name, dialect), s.role, ts)
		b.WriteString(conflict + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// escapeSQL dobla las comillas simples. MySQL, con el sql_mode por defecto, también
// interpreta la barra invertida como escape.
func escapeSQL(s, dialect string) string {
	if dialect == "mysql" {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return strings.ReplaceAll(s, "'", "''")
}
