// ledgerctl cliente de línea de comandos de la API del Ledger.
//
//	ledgerctl [--url http://localhost:8080] <comando> [args]
//
// Comandos: list, get <id>, create --name --publisher [--isbn --location --qty --threshold],
// in <id> <qty>, out <id> <qty>, logs <id>, low, reconcile <id> [--repair].
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/pkg/ledgerclient"
)

const usage = `uso: ledgerctl [--url URL] <comando> [args]

comandos:
  list [--limit N] [--offset N]
  get <id>
  create --name NOMBRE --publisher EDITORIAL [--isbn ISBN] [--location UBIC] [--qty N] [--threshold N]
  in <id> <qty> [--request-id ID]
  out <id> <qty> [--request-id ID]
  logs <id> [--limit N] [--offset N]
  low
  reconcile <id> [--repair]
`

var errUsage = errors.New("uso inválido")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := pflag.NewFlagSet("ledgerctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	defaultURL := os.Getenv("LEDGER_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	baseURL := global.String("url", defaultURL, "URL base de la API (LEDGER_URL)")
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	rest := global.Args()
	if len(rest) == 0 {
		return errUsage
	}
	client := ledgerclient.New(*baseURL)
	cmd, cmdArgs := rest[0], rest[1:]
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)

	var (
		result any
		err    error
	)
	switch cmd {
	case "list":
		limit := fs.Int("limit", dto.DefaultLimit, "límite")
		offset := fs.Int("offset", 0, "offset")
		if err := parse(fs, cmdArgs, 0); err != nil {
			return err
		}
		result, err = client.ListItems(ctx, *limit, *offset)

	case "get":
		if err := parse(fs, cmdArgs, 1); err != nil {
			return err
		}
		id, perr := parseID(fs.Arg(0))
		if perr != nil {
			return perr
		}
		result, err = client.GetItem(ctx, id)

	case "create":
		var in dto.CreateItemRequest
		fs.StringVar(&in.Name, "name", "", "nombre")
		fs.StringVar(&in.Publisher, "publisher", "", "editorial")
		fs.StringVar(&in.ISBN, "isbn", "", "ISBN")
		fs.StringVar(&in.Location, "location", "", "ubicación")
		fs.Int64Var(&in.InitialQuantity, "qty", 0, "cantidad inicial")
		fs.Int64Var(&in.ReorderThreshold, "threshold", 0, "punto de reorden")
		if err := parse(fs, cmdArgs, 0); err != nil {
			return err
		}
		result, err = client.CreateItem(ctx, in)

	case "in", "out":
		requestID := fs.String("request-id", "", "clave de idempotencia")
		if err := parse(fs, cmdArgs, 2); err != nil {
			return err
		}
		id, perr := parseID(fs.Arg(0))
		if perr != nil {
			return perr
		}
		qty, perr := strconv.ParseInt(fs.Arg(1), 10, 64)
		if perr != nil {
			return fmt.Errorf("%w: cantidad %q", errUsage, fs.Arg(1))
		}
		typ := "INBOUND"
		if cmd == "out" {
			typ = "OUTBOUND"
		}
		result, err = client.ApplyMovement(ctx, id, dto.MovementRequest{Type: typ, Quantity: qty, RequestID: *requestID})

	case "logs":
		limit := fs.Int("limit", dto.DefaultLimit, "límite")
		offset := fs.Int("offset", 0, "offset")
		if err := parse(fs, cmdArgs, 1); err != nil {
			return err
		}
		id, perr := parseID(fs.Arg(0))
		if perr != nil {
			return perr
		}
		result, err = client.History(ctx, id, *limit, *offset)

	case "low":
		if err := parse(fs, cmdArgs, 0); err != nil {
			return err
		}
		result, err = client.LowStock(ctx)

	case "reconcile":
		repair := fs.Bool("repair", false, "reescribir la cantidad con la suma de la bitácora")
		if err := parse(fs, cmdArgs, 1); err != nil {
			return err
		}
		id, perr := parseID(fs.Arg(0))
		if perr != nil {
			return perr
		}
		result, err = client.Reconcile(ctx, id, *repair)

	default:
		return fmt.Errorf("%w: comando %q", errUsage, cmd)
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// parse interpreta flags y exige exactamente n argumentos posicionales.
func parse(fs *pflag.FlagSet, args []string, n int) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != n {
		return fmt.Errorf("%w: %s espera %d argumento(s)", errUsage, fs.Name(), n)
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", errUsage, s)
	}
	return id, nil
}
