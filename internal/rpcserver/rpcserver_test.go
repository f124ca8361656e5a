package rpcserver_test

import (
	"context"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/sigtools/sig/internal/pipeline"
	"github.com/sigtools/sig/internal/rpcserver"
)

func buildQuery(t *testing.T, src string) *rpcserver.Query {
	t.Helper()
	ctx := pipeline.Build([]pipeline.Source{{File: "dog.sig", Text: src}})
	if !ctx.Diagnostics.Empty() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Diagnostics.All())
	}
	return rpcserver.NewQuery(ctx)
}

func decodeReq(s *structpb.Struct) func(interface{}) error {
	return func(out interface{}) error {
		*out.(*structpb.Struct) = *s
		return nil
	}
}

func TestListHandlerReturnsDeclaredNames(t *testing.T) {
	q := buildQuery(t, "class Dog\nend")
	h := &rpcserver.Handler{Query: q}
	for _, md := range rpcserver.ServiceDesc.Methods {
		if md.MethodName != "List" {
			continue
		}
		resp, err := md.Handler(h, context.Background(), decodeReq(&structpb.Struct{}), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := resp.(*structpb.Struct)
		names := out.Fields["names"].GetListValue().Values
		if len(names) != 1 || names[0].GetStringValue() != "::Dog" {
			t.Fatalf("expected [::Dog], got %v", names)
		}
		return
	}
	t.Fatal("List method not registered")
}

func TestAncestorsHandlerReportsSuperclass(t *testing.T) {
	q := buildQuery(t, "class Animal\nend\nclass Dog < Animal\nend")
	h := &rpcserver.Handler{Query: q}
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"name": structpb.NewStringValue("::Dog"),
	}}
	for _, md := range rpcserver.ServiceDesc.Methods {
		if md.MethodName != "Ancestors" {
			continue
		}
		resp, err := md.Handler(h, context.Background(), decodeReq(req), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := resp.(*structpb.Struct)
		entries := out.Fields["ancestors"].GetListValue().Values
		if len(entries) == 0 {
			t.Fatalf("expected at least one ancestor entry")
		}
		return
	}
	t.Fatal("Ancestors method not registered")
}
