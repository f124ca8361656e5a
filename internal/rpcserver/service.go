package rpcserver

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/sigtools/sig/internal/ancestors"
	"github.com/sigtools/sig/internal/astproto"
	"github.com/sigtools/sig/internal/namespace"
)

// serviceName is the fully-qualified gRPC service name this package hand-
// registers, mirroring the `sig.ast.AstNode` package declared in
// internal/astproto's embedded schema.
const serviceName = "sig.Query"

// Handler adapts a *Query to the gRPC unary dispatch signature. Methods are
// looked up by name in the ServiceDesc below rather than through a
// generated interface.
type Handler struct {
	Query *Query
}

// ServiceDesc is the hand-built grpc.ServiceDesc registering Handler's seven
// query methods, each taking and returning a structpb.Struct. There is no
// generated .pb.go interface to implement: RegisterService takes this desc
// directly, the same shape builtins_grpc.go builds for its own dynamically
// discovered services.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*interface{})(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "List", Handler: listHandler},
		{MethodName: "Ancestors", Handler: ancestorsHandler},
		{MethodName: "Methods", Handler: methodsHandler},
		{MethodName: "Method", Handler: methodHandler},
		{MethodName: "Constant", Handler: constantHandler},
		{MethodName: "Validate", Handler: validateHandler},
		{MethodName: "AST", Handler: astHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sig/query.proto",
}

func decodeRequest(dec func(interface{}) error) (*structpb.Struct, error) {
	req := &structpb.Struct{}
	if err := dec(req); err != nil {
		return nil, err
	}
	return req, nil
}

func stringSlice(values []string) *structpb.Value {
	list := make([]*structpb.Value, len(values))
	for i, v := range values {
		list[i] = structpb.NewStringValue(v)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: list})
}

func listHandler(srv interface{}, _ context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	h := srv.(*Handler)
	if _, err := decodeRequest(dec); err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"names": stringSlice(h.Query.List()),
	}}, nil
}

func kindField(req *structpb.Struct) ancestors.Kind {
	if req.Fields["singleton"].GetBoolValue() {
		return ancestors.Singleton
	}
	return ancestors.Instance
}

func ancestorsHandler(srv interface{}, _ context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	h := srv.(*Handler)
	req, err := decodeRequest(dec)
	if err != nil {
		return nil, err
	}
	list, err := h.Query.Ancestors(req.Fields["name"].GetStringValue(), kindField(req))
	if err != nil {
		return nil, err
	}
	entries := make([]*structpb.Value, len(list))
	for i, a := range list {
		entries[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"name":          structpb.NewStringValue(a.Name),
			"extensionName": structpb.NewStringValue(a.ExtensionName),
		}})
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"ancestors": structpb.NewListValue(&structpb.ListValue{Values: entries}),
	}}, nil
}

func methodsHandler(srv interface{}, _ context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	h := srv.(*Handler)
	req, err := decodeRequest(dec)
	if err != nil {
		return nil, err
	}
	names, err := h.Query.Methods(req.Fields["name"].GetStringValue(), kindField(req))
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"names": stringSlice(names),
	}}, nil
}

func methodHandler(srv interface{}, _ context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	h := srv.(*Handler)
	req, err := decodeRequest(dec)
	if err != nil {
		return nil, err
	}
	m, err := h.Query.Method(req.Fields["name"].GetStringValue(), kindField(req), req.Fields["method"].GetStringValue())
	if err != nil {
		return nil, err
	}
	overloadCount := int64(len(m.Overloads))
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"definedIn":     structpb.NewStringValue(m.DefinedIn),
		"implementedIn": structpb.NewStringValue(m.ImplementedIn),
		"overloadCount": structpb.NewNumberValue(float64(overloadCount)),
	}}, nil
}

func constantHandler(srv interface{}, _ context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	h := srv.(*Handler)
	req, err := decodeRequest(dec)
	if err != nil {
		return nil, err
	}
	name := namespace.TypeName{Namespace: namespace.FromAbsolute(), SimpleName: req.Fields["name"].GetStringValue()}
	resolved, typ, err := h.Query.Constant(name)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"name": structpb.NewStringValue(resolved),
		"type": structpb.NewStructValue(astproto.EncodeType(typ)),
	}}, nil
}

func validateHandler(srv interface{}, _ context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	h := srv.(*Handler)
	if _, err := decodeRequest(dec); err != nil {
		return nil, err
	}
	msgs := h.Query.Validate()
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"ok":         structpb.NewBoolValue(len(msgs) == 0),
		"diagnostic": stringSlice(msgs),
	}}, nil
}

func astHandler(srv interface{}, _ context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	h := srv.(*Handler)
	req, err := decodeRequest(dec)
	if err != nil {
		return nil, err
	}
	file := req.Fields["file"].GetStringValue()
	decls, ok := h.Query.AST(file)
	if !ok {
		return nil, fmt.Errorf("no such file: %s", file)
	}
	return astproto.EncodeDecls(decls), nil
}
