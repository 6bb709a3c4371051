package models

import (
	"strings"
	"time"
)

// Scalar form fields accepted on add/edit, keyed by their wire name.
const (
	FieldName     = "name"
	FieldTitle    = "title"
	FieldDes      = "des"
	FieldRating   = "rating"
	FieldPrice    = "price"
	FieldWeight   = "weight"
	FieldTag      = "tag"
	FieldCategory = "category"
)

// AttributeFields lists the dimensional fields later schema versions added.
// They live in Product.Attributes rather than as struct fields.
var AttributeFields = []string{
	"height",
	"width",
	"length",
	"trapSize",
	"size",
	"sizes",
	"pedestal",
	"basin",
}

type Product struct {
	ID         string            `json:"_id" bson:"-"`
	Name       string            `json:"name" bson:"name"`
	Images     StringList        `json:"images" bson:"images"`
	Title      string            `json:"title" bson:"title"`
	Des        string            `json:"des" bson:"des"`
	Rating     string            `json:"rating" bson:"rating"`
	Price      string            `json:"price" bson:"price"`
	Weight     string            `json:"weight" bson:"weight"`
	Tag        string            `json:"tag" bson:"tag"`
	Category   string            `json:"category" bson:"category"`
	Attributes map[string]string `json:"attributes,omitempty" bson:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// Clone returns a copy that shares no slices or maps with p.
func (p Product) Clone() Product {
	out := p
	out.Images = append(StringList{}, p.Images...)
	if p.Attributes != nil {
		out.Attributes = make(map[string]string, len(p.Attributes))
		for k, v := range p.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// ProductInput carries the scalar fields of an add/edit request. Present
// records which keys the client actually sent, so an explicit empty string
// can be told apart from an omitted field.
type ProductInput struct {
	Name       string            `schema:"name"`
	Title      string            `schema:"title"`
	Des        string            `schema:"des"`
	Rating     string            `schema:"rating"`
	Price      string            `schema:"price"`
	Weight     string            `schema:"weight"`
	Tag        string            `schema:"tag"`
	Category   string            `schema:"category"`
	Attributes map[string]string `schema:"-"`

	Present map[string]bool `schema:"-"`
}

func (in ProductInput) Has(field string) bool {
	return in.Present[field]
}

// NewProduct builds a record from every field of in, sent or not.
func (in ProductInput) NewProduct() Product {
	p := Product{
		Name:     strings.TrimSpace(in.Name),
		Title:    in.Title,
		Des:      in.Des,
		Rating:   in.Rating,
		Price:    in.Price,
		Weight:   in.Weight,
		Tag:      in.Tag,
		Category: in.Category,
		Images:   StringList{},
	}
	for _, key := range AttributeFields {
		v, ok := in.Attributes[key]
		if !ok && !in.Has(key) {
			continue
		}
		if p.Attributes == nil {
			p.Attributes = map[string]string{}
		}
		p.Attributes[key] = v
	}
	return p
}

// Apply copies every present field of in onto p.
func (in ProductInput) Apply(p *Product) {
	set := func(field string, dst *string, v string) {
		if in.Has(field) {
			*dst = v
		}
	}
	set(FieldName, &p.Name, strings.TrimSpace(in.Name))
	set(FieldTitle, &p.Title, in.Title)
	set(FieldDes, &p.Des, in.Des)
	set(FieldRating, &p.Rating, in.Rating)
	set(FieldPrice, &p.Price, in.Price)
	set(FieldWeight, &p.Weight, in.Weight)
	set(FieldTag, &p.Tag, in.Tag)
	set(FieldCategory, &p.Category, in.Category)

	for _, key := range AttributeFields {
		if !in.Has(key) {
			continue
		}
		if p.Attributes == nil {
			p.Attributes = map[string]string{}
		}
		p.Attributes[key] = in.Attributes[key]
	}
}

// CategorySummary is one entry of the category listing.
type CategorySummary struct {
	Name     string `json:"name"`
	Products int    `json:"products"`
}
