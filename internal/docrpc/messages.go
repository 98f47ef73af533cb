package docrpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fieldPath   = "path"
	fieldMerge  = "merge"
	fieldData   = "data"
	fieldExists = "exists"
)

// ErrBadMessage is returned for a Struct that lacks a required field.
var ErrBadMessage = errors.New("malformed document message")

// NewSetDocRequest packs a write. data must be a JSON object.
func NewSetDocRequest(path string, data json.RawMessage, merge bool) (*structpb.Struct, error) {
	body := &structpb.Struct{}
	if err := body.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("document data: %w", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldPath:  structpb.NewStringValue(path),
		fieldMerge: structpb.NewBoolValue(merge),
		fieldData:  structpb.NewStructValue(body),
	}}, nil
}

// ParseSetDocRequest unpacks a write.
func ParseSetDocRequest(req *structpb.Struct) (path string, data json.RawMessage, merge bool, err error) {
	fields := req.GetFields()

	p, ok := fields[fieldPath]
	if !ok || p.GetStringValue() == "" {
		return "", nil, false, fmt.Errorf("%w: missing path", ErrBadMessage)
	}
	body := fields[fieldData].GetStructValue()
	if body == nil {
		return "", nil, false, fmt.Errorf("%w: missing data", ErrBadMessage)
	}

	data, err = body.MarshalJSON()
	if err != nil {
		return "", nil, false, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	return p.GetStringValue(), data, fields[fieldMerge].GetBoolValue(), nil
}

// NewGetDocResponse packs a read result. data is ignored when !exists.
func NewGetDocResponse(exists bool, data json.RawMessage) (*structpb.Struct, error) {
	out := &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldExists: structpb.NewBoolValue(exists),
	}}
	if !exists {
		return out, nil
	}

	body := &structpb.Struct{}
	if err := body.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("document data: %w", err)
	}
	out.Fields[fieldData] = structpb.NewStructValue(body)
	return out, nil
}

// ParseGetDocResponse unpacks a read result.
func ParseGetDocResponse(resp *structpb.Struct) (bool, json.RawMessage, error) {
	fields := resp.GetFields()
	if !fields[fieldExists].GetBoolValue() {
		return false, nil, nil
	}

	body := fields[fieldData].GetStructValue()
	if body == nil {
		return false, nil, fmt.Errorf("%w: missing data", ErrBadMessage)
	}
	data, err := body.MarshalJSON()
	if err != nil {
		return false, nil, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	return true, data, nil
}
