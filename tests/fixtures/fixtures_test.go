package fixtures_test

import (
	"reflect"
	"testing"

	"github.com/sigtools/sig/internal/pipeline"
	"github.com/sigtools/sig/internal/rpcserver"
	"github.com/sigtools/sig/tests/fixtures"
)

func TestGoldenFixturesBuildCleanlyAndDeclareWantedNames(t *testing.T) {
	cases, err := fixtures.LoadDir("golden")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no golden fixtures found under golden/")
	}

	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			ctx := pipeline.Build(c.Sources)
			if !ctx.Diagnostics.Empty() {
				for _, d := range ctx.Diagnostics.All() {
					t.Errorf("unexpected diagnostic: %s", d.Error())
				}
			}

			got := rpcserver.NewQuery(ctx).List()
			if !reflect.DeepEqual(got, c.Want) {
				t.Errorf("List() = %v, want %v", got, c.Want)
			}
		})
	}
}
