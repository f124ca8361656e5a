package cliterm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sigtools/sig/internal/cliterm"
	"github.com/sigtools/sig/internal/sigerrors"
	"github.com/sigtools/sig/internal/token"
)

func TestDiagnosticsReportsEmptyBag(t *testing.T) {
	var buf bytes.Buffer
	p := &cliterm.Printer{Out: &buf}
	p.Diagnostics(&sigerrors.Bag{})
	if !strings.Contains(buf.String(), "no diagnostics") {
		t.Fatalf("expected an empty-bag message, got %q", buf.String())
	}
}

func TestDiagnosticsRendersEachEntryUncolored(t *testing.T) {
	var buf bytes.Buffer
	p := &cliterm.Printer{Out: &buf, Color: false}
	bag := &sigerrors.Bag{}
	bag.Addf("V100", token.Token{}, "dog.sig", errFixture{"bad arity"})
	p.Diagnostics(bag)
	out := buf.String()
	if !strings.Contains(out, "dog.sig") || !strings.Contains(out, "V100") || !strings.Contains(out, "bad arity") {
		t.Fatalf("expected rendered diagnostic in output, got %q", out)
	}
}

type errFixture struct{ msg string }

func (e errFixture) Error() string { return e.msg }
