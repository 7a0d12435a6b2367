package feed

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// document mirrors the vendor YAML layout
type document struct {
	Shop       string        `yaml:"shop" validate:"required"`
	Categories []categoryDoc `yaml:"categories" validate:"dive"`
	Goods      []goodDoc     `yaml:"goods" validate:"dive"`
}

type categoryDoc struct {
	ID   *int64 `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required"`
}

type goodDoc struct {
	ID         *int64                `yaml:"id" validate:"required"`
	Category   *int64                `yaml:"category" validate:"required"`
	Model      string                `yaml:"model"`
	Name       string                `yaml:"name" validate:"required"`
	Price      *amount               `yaml:"price" validate:"required"`
	PriceRRC   *amount               `yaml:"price_rrc" validate:"required"`
	Quantity   *int                  `yaml:"quantity" validate:"required,min=0"`
	Parameters map[string]scalarText `yaml:"parameters"`
}

// amount decodes a YAML number or numeric string without float rounding
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: price must be a number", node.Line)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: %q is not a number", node.Line, node.Value)
	}
	a.Decimal = d
	return nil
}

// scalarText keeps a parameter value as written, so 6.50 stays "6.50"
type scalarText string

func (s *scalarText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: parameter values must be scalars", node.Line)
	}
	*s = scalarText(node.Value)
	return nil
}

// YAMLParser decodes and validates YAML feeds
type YAMLParser struct {
	validate *validator.Validate
}

// NewYAMLParser creates a parser whose messages use the YAML field names
func NewYAMLParser() *YAMLParser {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &YAMLParser{validate: v}
}

// Parse decodes data into a feed. Unknown keys are ignored. Syntax errors,
// missing fields and dangling category references are FEED_MALFORMED.
func (p *YAMLParser) Parse(data []byte) (*catalog.Feed, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, malformed("document is empty")
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, malformed(strings.TrimPrefix(err.Error(), "yaml: "))
	}
	if err := p.validate.Struct(&doc); err != nil {
		return nil, malformed(describe(err))
	}

	feed := doc.toFeed()
	if err := feed.Validate(); err != nil {
		return nil, err
	}
	return feed, nil
}

func (d *document) toFeed() *catalog.Feed {
	feed := &catalog.Feed{
		Shop:       strings.TrimSpace(d.Shop),
		Categories: make([]catalog.FeedCategory, 0, len(d.Categories)),
		Goods:      make([]catalog.FeedGood, 0, len(d.Goods)),
	}
	for _, c := range d.Categories {
		feed.Categories = append(feed.Categories, catalog.FeedCategory{ExternalID: *c.ID, Name: strings.TrimSpace(c.Name)})
	}
	for _, g := range d.Goods {
		params := make(map[string]string, len(g.Parameters))
		for k, v := range g.Parameters {
			params[strings.TrimSpace(k)] = string(v)
		}
		feed.Goods = append(feed.Goods, catalog.FeedGood{
			ExternalID:       *g.ID,
			CategoryID:       *g.Category,
			Name:             strings.TrimSpace(g.Name),
			Model:            strings.TrimSpace(g.Model),
			Price:            g.Price.Decimal,
			RecommendedPrice: g.PriceRRC.Decimal,
			Quantity:         *g.Quantity,
			Parameters:       params,
		})
	}
	return feed
}

// describe renders the first validation failure as "goods[2].price: required"
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s: %s", field, fe.Tag())
}

func malformed(msg string) error {
	return shared.NewDomainError(shared.CodeFeedMalformed, "Malformed feed: "+msg)
}
