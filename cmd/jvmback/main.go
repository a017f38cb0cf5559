package main

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/lljvm-go/jvmback/emit"
	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jasm"
	"github.com/lljvm-go/jvmback/layout"
	"github.com/lljvm-go/jvmback/names"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

func main() {
	app := &cli.Command{
		Name:        "jvmback",
		Description: "jvmback lowers a typed SSA module into Jasmin-syntax JVM assembly text",
		Action:      runAct,
		Args:        cli.Args{},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func runAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	classname := ""
	debug := 0
	var inputs []string

	for _, a := range c.Args {
		switch {
		case strings.HasPrefix(a, "--classname="):
			classname = strings.TrimPrefix(a, "--classname=")
		case len(a) == 3 && strings.HasPrefix(a, "-g"):
			lvl, err := strconv.Atoi(a[2:])
			if err != nil {
				return errors.Wrap(err, "debug level %v", a)
			}
			debug = lvl
		default:
			inputs = append(inputs, a)
		}
	}

	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	for _, in := range inputs {
		if err := compileOne(ctx, in, classname, debug); err != nil {
			return errors.Wrap(err, "compile %v", in)
		}
	}

	return nil
}

func compileOne(ctx context.Context, path, classname string, debug int) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "jvmback: compile", "path", path)
	defer tr.Finish("err", &err)

	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "open")
		}
		defer f.Close()
		in = f
	}

	m, err := ir.DecodeModule(in)
	if err != nil {
		return errors.Wrap(err, "decode module")
	}
	if path != "-" {
		m.Identifier = path
	}

	w := &jasm.Writer{}
	e := emit.New(w, layout.Default(), names.IdentityMangler{}, debug)

	if err := e.CompileModule(ctx, m, classname); err != nil {
		return errors.Wrap(err, "compile module")
	}

	_, err = os.Stdout.Write(w.Bytes())
	return err
}
