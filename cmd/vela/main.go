// Command vela is the front end driver for the Vela language: it scans and
// parses Vela source and prints the resulting tree.
//
// Usage:
//
//	vela               start an interactive session
//	vela file.vela     parse a file and print its tree
//	vela -e 'expr'     parse the argument and print its tree
//	vela -tokens ...   print the token stream instead of the tree
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/metaphox/vela-lang/ast"
	"github.com/metaphox/vela-lang/lexer"
	"github.com/metaphox/vela-lang/parser"
)

const (
	historyFile = ".vela_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

func main() {
	expr := flag.String("e", "", "parse this expression instead of a file")
	tokens := flag.Bool("tokens", false, "print the token stream instead of the tree")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: vela [-tokens] [-e expr | file]")
		flag.PrintDefaults()
	}
	flag.Parse()

	switch {
	case *expr != "":
		os.Exit(run("<arg>", *expr, *tokens))
	case flag.NArg() == 1:
		src, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(run(flag.Arg(0), string(src), *tokens))
	case flag.NArg() == 0:
		os.Exit(repl())
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// run parses src and prints either its token stream or its tree.
func run(name, src string, tokens bool) int {
	stream, err := scan(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return 1
	}

	if tokens {
		for {
			tok, ok := stream.Next()
			if !ok {
				return 0
			}
			fmt.Println(tok)
		}
	}

	node, err := parser.Parse(stream)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return 1
	}
	fmt.Println(node)
	return 0
}

// scan runs the lexing pipeline: raw tokens, comments hidden, eols inferred.
func scan(src string) (*lexer.TokenStream, error) {
	toks, err := lexer.New(src).Scan()
	if err != nil {
		return nil, err
	}
	return lexer.InferEOLs(lexer.NewTokenStream(toks, ast.COMMENT)), nil
}

// ── Interactive session ───────────────────────────────────────────────────────

func repl() int {
	fmt.Println("Vela. Ctrl+D or :quit exits.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		if strings.TrimSpace(src) == ":quit" {
			return 0
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		stream, err := scan(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		node, err := parser.Parse(stream)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(node)
	}
}

// readInput reads one complete input, prompting for continuation lines while
// the text so far ends mid-expression. It reports false on end of input.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		stream, serr := scan(src)
		if serr != nil {
			return src, true
		}
		if _, perr := parser.Parse(stream); parser.Incomplete(perr) {
			continue
		}
		return src, true
	}
}
