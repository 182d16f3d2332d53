package sales

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// AllStatuses is the status selection that disables the status filter.
const AllStatuses = "Todos"

//go:embed labels.yaml
var labelsYAML []byte

// Catalog maps raw marketplace codes to operator-facing labels.
type Catalog struct {
	Statuses              map[string]string `yaml:"statuses"`
	LogisticTypes         map[string]string `yaml:"logistic_types"`
	FallbackShipmentLabel string            `yaml:"fallback_shipment_label"`
}

var (
	catalog     *Catalog
	catalogOnce sync.Once
	titleCaser  = cases.Title(language.BrazilianPortuguese)
)

// ParseCatalog decodes a label catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("error parsing label catalog: %w", err)
	}
	if c.FallbackShipmentLabel == "" {
		c.FallbackShipmentLabel = "outros"
	}
	return &c, nil
}

// Labels returns the embedded catalog.
func Labels() *Catalog {
	catalogOnce.Do(func() {
		c, err := ParseCatalog(labelsYAML)
		if err != nil {
			panic(err)
		}
		catalog = c
	})
	return catalog
}

// StatusLabel translates a raw status. Unknown codes are title-cased.
func (c *Catalog) StatusLabel(raw string) string {
	if label, ok := c.Statuses[strings.ToLower(raw)]; ok {
		return label
	}
	if raw == "" {
		return ""
	}
	return titleCaser.String(strings.ReplaceAll(raw, "_", " "))
}

// ShipmentLabel translates a raw logistic type.
func (c *Catalog) ShipmentLabel(raw string) string {
	if label, ok := c.LogisticTypes[strings.ToLower(raw)]; ok {
		return label
	}
	return c.FallbackShipmentLabel
}

// StatusLabel translates a raw status using the embedded catalog.
func StatusLabel(raw string) string {
	return Labels().StatusLabel(raw)
}

// ShipmentLabel translates a logistic type using the embedded catalog.
func ShipmentLabel(raw string) string {
	return Labels().ShipmentLabel(raw)
}
