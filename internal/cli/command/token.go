package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/sigtok-go/internal/cli/output"
	"github.com/yndnr/sigtok-go/internal/core/domain"
	"github.com/yndnr/sigtok-go/internal/core/token"
)

// CreateCommand returns the create subcommand.
func CreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Aliases:   []string{"sign"},
		Usage:     "Sign each argument into a token, whatever its length",
		ArgsUsage: "DATA...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Parse each argument as a JSON value instead of a string",
			},
		},
		Action: func(c *cli.Context) error {
			return runTokens(c, modeCreate, c.Bool("json"))
		},
	}
}

// ReadCommand returns the read subcommand.
func ReadCommand() *cli.Command {
	return &cli.Command{
		Name:      "read",
		Aliases:   []string{"verify"},
		Usage:     "Read and verify each argument as a token",
		ArgsUsage: "TOKEN...",
		Action: func(c *cli.Context) error {
			return runTokens(c, modeRead, false)
		},
	}
}

type mode int

const (
	modeAuto mode = iota
	modeCreate
	modeRead
)

func defaultAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return runTokens(c, modeAuto, false)
}

// runTokens handles every argument in order, printing one result per
// argument. A failed create stops processing after printing the results
// so far; an untrusted read is a result, not an error.
func runTokens(c *cli.Context, m mode, parseJSON bool) error {
	if c.NArg() == 0 {
		return errors.New("at least one argument is required")
	}

	e, err := getEnv(c)
	if err != nil {
		return err
	}
	backend, err := e.Backend()
	if err != nil {
		return err
	}
	key, err := e.Key()
	if err != nil {
		return err
	}

	results := make(output.Results, 0, c.NArg())
	var runErr error
	for _, arg := range c.Args().Slice() {
		read := m == modeRead || (m == modeAuto && domain.IsTokenString(arg))
		if read {
			data, ok := token.ReadToken[any](c.Context, backend, arg, key)
			results = append(results, output.Read(arg, data, ok))
			continue
		}

		var data any = arg
		if parseJSON {
			if data, err = parseJSONArg(arg); err != nil {
				runErr = fmt.Errorf("argument %q: %w", arg, err)
				break
			}
		}
		tok, err := token.CreateToken(c.Context, backend, data, key)
		if err != nil {
			runErr = fmt.Errorf("create token for %q: %w", arg, err)
			break
		}
		results = append(results, output.Created(arg, tok.String()))
	}

	if len(results) > 0 {
		if err := e.Print(results); err != nil {
			return err
		}
	}
	return runErr
}

func parseJSONArg(arg string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(arg)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data")
	}
	return v, nil
}
