package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList is an ordered list of strings that also decodes from a bare
// string. Older records and clients send images either way.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = StringList{}
		return nil
	}

	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*l = fromSingle(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected a string or an array of strings: %w", err)
	}
	*l = StringList(many)
	return nil
}

func (l *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*l = StringList{}
		return nil
	case bsontype.String:
		var single string
		if err := bson.UnmarshalValue(t, data, &single); err != nil {
			return err
		}
		*l = fromSingle(single)
		return nil
	case bsontype.Array:
		var many []string
		if err := bson.UnmarshalValue(t, data, &many); err != nil {
			return err
		}
		*l = StringList(many)
		return nil
	default:
		return fmt.Errorf("cannot decode %s into a string list", t)
	}
}

func fromSingle(s string) StringList {
	if s == "" {
		return StringList{}
	}
	return StringList{s}
}
