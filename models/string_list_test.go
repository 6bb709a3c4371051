package models

import (
	"encoding/json"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestStringListJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    StringList
		wantErr bool
	}{
		{`"a.jpg"`, StringList{"a.jpg"}, false},
		{`["a.jpg"]`, StringList{"a.jpg"}, false},
		{`["a.jpg","b.jpg"]`, StringList{"a.jpg", "b.jpg"}, false},
		{`""`, StringList{}, false},
		{`null`, StringList{}, false},
		{`[]`, StringList{}, false},
		{`42`, nil, true},
		{`{"a":1}`, nil, true},
	}
	for _, tt := range tests {
		var got struct {
			Images StringList `json:"images"`
		}
		err := json.Unmarshal([]byte(`{"images":`+tt.in+`}`), &got)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if len(got.Images) != len(tt.want) || (len(tt.want) > 0 && !reflect.DeepEqual(got.Images, tt.want)) {
			t.Errorf("%s: got %#v, want %#v", tt.in, got.Images, tt.want)
		}
	}
}

func TestStringListBSON(t *testing.T) {
	decode := func(v interface{}) StringList {
		t.Helper()
		data, err := bson.Marshal(bson.M{"images": v})
		if err != nil {
			t.Fatal(err)
		}
		var out struct {
			Images StringList `bson:"images"`
		}
		if err := bson.Unmarshal(data, &out); err != nil {
			t.Fatalf("Unmarshal %v: %v", v, err)
		}
		return out.Images
	}

	single := decode("a.jpg")
	many := decode(bson.A{"a.jpg"})
	if !reflect.DeepEqual(single, many) || len(single) != 1 {
		t.Errorf("single %#v != array %#v", single, many)
	}
	if got := decode(nil); len(got) != 0 {
		t.Errorf("null = %#v", got)
	}
	if got := decode(""); len(got) != 0 {
		t.Errorf("empty string = %#v", got)
	}
}

func TestProductInputApply(t *testing.T) {
	p := Product{Name: "A", Title: "T", Price: "10"}
	in := ProductInput{
		Name:       " B ",
		Title:      "",
		Price:      "99",
		Attributes: map[string]string{"basin": "round"},
		Present:    map[string]bool{FieldName: true, FieldTitle: true, "basin": true},
	}
	in.Apply(&p)

	if p.Name != "B" || p.Title != "" || p.Price != "10" {
		t.Errorf("got %+v", p)
	}
	if p.Attributes["basin"] != "round" {
		t.Errorf("Attributes = %v", p.Attributes)
	}
}

func TestProductClone(t *testing.T) {
	p := Product{Images: StringList{"a"}, Attributes: map[string]string{"k": "v"}}
	c := p.Clone()
	c.Images[0] = "b"
	c.Attributes["k"] = "w"
	if p.Images[0] != "a" || p.Attributes["k"] != "v" {
		t.Error("Clone shares state")
	}
}
