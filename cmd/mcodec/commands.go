package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-managed/codec"
)

type codecFlags struct {
	typeExpr string
	top      bool
}

func (f *codecFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typeExpr, "type", "t", "", "Type expression, e.g. 'record{to: address, amount: biguint}'")
	cmd.Flags().BoolVar(&f.top, "top", false, "Use the top-level form instead of the nested form")
	_ = cmd.MarkFlagRequired("type")
}

func (f *codecFlags) form() string {
	if f.top {
		return "top"
	}
	return "nested"
}

func newEncodeCommand(g *globalFlags) *cobra.Command {
	var f codecFlags
	cmd := &cobra.Command{
		Use:   "encode [json-value]",
		Short: "Encode a JSON value and print it as hex",
		Long:  "Encode a JSON value and print it as hex. The value is read from stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := codec.ParseType(f.typeExpr)
			if err != nil {
				return err
			}
			var src io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				src = strings.NewReader(args[0])
			}
			v, err := readJSON(src)
			if err != nil {
				return err
			}
			out, err := encodeValue(t, v, f.top)
			if err != nil {
				return err
			}
			g.log.Debug("encoded",
				zap.String("type", codec.FormatType(t)),
				zap.String("form", f.form()),
				zap.Int("bytes", len(out)))
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newDecodeCommand(g *globalFlags) *cobra.Command {
	var f codecFlags
	cmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode hex bytes and print the value as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := codec.ParseType(f.typeExpr)
			if err != nil {
				return err
			}
			data, err := parseHex(args[0])
			if err != nil {
				return err
			}
			s, err := decodeValue(t, data, f.top)
			if err != nil {
				return err
			}
			g.log.Debug("decoded",
				zap.String("type", codec.FormatType(t)),
				zap.String("form", f.form()),
				zap.Int("bytes", len(data)))
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newDescribeCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <type>",
		Short: "Print the canonical form of a type expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := codec.ParseType(args[0])
			if err != nil {
				return err
			}
			g.log.Debug("described", zap.String("input", args[0]))
			fmt.Fprintln(cmd.OutOrStdout(), codec.FormatType(t))
			return nil
		},
	}
}

func readJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("read json value: %w", err)
	}
	return v, nil
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return data, nil
}

func encodeValue(t wit.Type, v any, top bool) ([]byte, error) {
	return codec.DynamicEncode(t, v, top)
}

func decodeValue(t wit.Type, data []byte, top bool) (string, error) {
	v, err := codec.DynamicDecode(t, data, top)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(render(v))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
