package service

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/protobuf/types/descriptorpb"

	elimc "github.com/funvibe/elimc/pkg/embed"
)

//go:embed checker.proto
var checkerProto string

const (
	protoFile   = "checker.proto"
	ServiceName = "elimc.Checker"
	CheckMethod = "/elimc.Checker/Check"
)

var (
	serviceOnce sync.Once
	serviceDesc *desc.ServiceDescriptor
	serviceErr  error
)

// loadService parses the embedded proto once.
func loadService() (*desc.ServiceDescriptor, error) {
	serviceOnce.Do(func() {
		parser := protoparse.Parser{
			Accessor: protoparse.FileContentsFromMap(map[string]string{protoFile: checkerProto}),
		}
		fds, err := parser.ParseFiles(protoFile)
		if err != nil {
			serviceErr = fmt.Errorf("failed to parse proto: %w", err)
			return
		}
		serviceDesc = fds[0].FindService(ServiceName)
		if serviceDesc == nil {
			serviceErr = fmt.Errorf("service %s not found in %s", ServiceName, protoFile)
		}
	})
	return serviceDesc, serviceErr
}

func checkMethod() (*desc.MethodDescriptor, error) {
	sd, err := loadService()
	if err != nil {
		return nil, err
	}
	md := sd.FindMethodByName("Check")
	if md == nil {
		return nil, fmt.Errorf("method Check not found in %s", ServiceName)
	}
	return md, nil
}

// CheckResponse is the decoded form of elimc.CheckResponse.
type CheckResponse struct {
	RequestID   string
	Definitions []*elimc.Definition
	Diagnostics []*elimc.Diagnostic
}

// HasErrors reports whether any diagnostic is an error.
func (r *CheckResponse) HasErrors() bool {
	return (&elimc.Outcome{Diagnostics: r.Diagnostics}).HasErrors()
}

// setField assigns v to the named field. A slice v fills a repeated field.
func setField(msg *dynamic.Message, name string, v interface{}) error {
	fd := msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return fmt.Errorf("%s has no field %s", msg.GetMessageDescriptor().GetFullyQualifiedName(), name)
	}

	if !fd.IsRepeated() {
		pv, err := protoValue(fd, v)
		if err != nil {
			return err
		}
		return msg.TrySetField(fd, pv)
	}

	var items []interface{}
	switch vs := v.(type) {
	case []string:
		for _, s := range vs {
			items = append(items, s)
		}
	case []int:
		for _, i := range vs {
			items = append(items, i)
		}
	case []*dynamic.Message:
		for _, m := range vs {
			items = append(items, m)
		}
	default:
		return fmt.Errorf("field %s: cannot fill a repeated field from %T", name, v)
	}
	for _, item := range items {
		pv, err := protoValue(fd, item)
		if err != nil {
			return err
		}
		if err := msg.TryAddRepeatedField(fd, pv); err != nil {
			return err
		}
	}
	return nil
}

// protoValue converts a Go value to the representation the dynamic
// message expects for fd.
func protoValue(fd *desc.FieldDescriptor, v interface{}) (interface{}, error) {
	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_INT32:
		if i, ok := v.(int); ok {
			return int32(i), nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		if m, ok := v.(*dynamic.Message); ok {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unsupported conversion for %T to %v (field %s)", v, fd.GetType(), fd.GetName())
}

func stringField(msg *dynamic.Message, name string) string {
	v, _ := msg.TryGetFieldByName(name)
	s, _ := v.(string)
	return s
}

func boolField(msg *dynamic.Message, name string) bool {
	v, _ := msg.TryGetFieldByName(name)
	b, _ := v.(bool)
	return b
}

func intField(msg *dynamic.Message, name string) int {
	v, _ := msg.TryGetFieldByName(name)
	i, _ := v.(int32)
	return int(i)
}

func repeatedField(msg *dynamic.Message, name string) []interface{} {
	v, _ := msg.TryGetFieldByName(name)
	items, _ := v.([]interface{})
	return items
}

func encodeResponse(md *desc.MessageDescriptor, resp *CheckResponse) (*dynamic.Message, error) {
	msg := dynamic.NewMessage(md)
	if err := setField(msg, "request_id", resp.RequestID); err != nil {
		return nil, err
	}

	defType := md.FindFieldByName("definitions").GetMessageType()
	var defs []*dynamic.Message
	for _, d := range resp.Definitions {
		m := dynamic.NewMessage(defType)
		fields := []struct {
			name  string
			value interface{}
		}{
			{"name", d.Name},
			{"ok", d.OK},
			{"status", d.Status},
			{"tree", d.Tree},
			{"missing", d.Missing},
			{"truncated", d.Truncated},
			{"redundant", d.Redundant},
			{"cached", d.Cached},
		}
		for _, f := range fields {
			if err := setField(m, f.name, f.value); err != nil {
				return nil, err
			}
		}
		defs = append(defs, m)
	}
	if err := setField(msg, "definitions", defs); err != nil {
		return nil, err
	}

	diagType := md.FindFieldByName("diagnostics").GetMessageType()
	var diags []*dynamic.Message
	for _, d := range resp.Diagnostics {
		m := dynamic.NewMessage(diagType)
		for _, f := range []struct {
			name  string
			value interface{}
		}{
			{"code", d.Code},
			{"severity", d.Severity},
			{"message", d.Message},
			{"line", d.Line},
			{"column", d.Column},
		} {
			if err := setField(m, f.name, f.value); err != nil {
				return nil, err
			}
		}
		diags = append(diags, m)
	}
	if err := setField(msg, "diagnostics", diags); err != nil {
		return nil, err
	}
	return msg, nil
}

func decodeResponse(msg *dynamic.Message) *CheckResponse {
	resp := &CheckResponse{RequestID: stringField(msg, "request_id")}

	for _, item := range repeatedField(msg, "definitions") {
		m, ok := item.(*dynamic.Message)
		if !ok {
			continue
		}
		d := &elimc.Definition{
			Name:      stringField(m, "name"),
			OK:        boolField(m, "ok"),
			Status:    stringField(m, "status"),
			Tree:      stringField(m, "tree"),
			Truncated: boolField(m, "truncated"),
			Cached:    boolField(m, "cached"),
		}
		for _, w := range repeatedField(m, "missing") {
			s, _ := w.(string)
			d.Missing = append(d.Missing, s)
		}
		for _, r := range repeatedField(m, "redundant") {
			i, _ := r.(int32)
			d.Redundant = append(d.Redundant, int(i))
		}
		resp.Definitions = append(resp.Definitions, d)
	}

	for _, item := range repeatedField(msg, "diagnostics") {
		m, ok := item.(*dynamic.Message)
		if !ok {
			continue
		}
		resp.Diagnostics = append(resp.Diagnostics, &elimc.Diagnostic{
			Code:     stringField(m, "code"),
			Severity: stringField(m, "severity"),
			Message:  stringField(m, "message"),
			Line:     intField(m, "line"),
			Column:   intField(m, "column"),
		})
	}
	return resp
}
