// SPDX-License-Identifier: MIT

package ref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/eeio/internal/logging"
)

// Unit maps a unit name to its reference unit and quantity.
type Unit struct {
	Name        string
	UnitUID     string
	Quantity    string
	QuantityUID string
	Factor      float64
}

// Location maps a location code to a name and identifier.
type Location struct {
	Code string
	Name string
	UID  string
}

// Compartment maps "compartment/sub_compartment" to an identifier and the
// flow direction ("input" or "output").
type Compartment struct {
	Compartment    string
	SubCompartment string
	UID            string
	Direction      string
}

// Key is the lookup key of the compartment.
func (c Compartment) Key() string { return AsPath(c.Compartment, c.SubCompartment) }

// UnitMap resolves unit names case-insensitively.
type UnitMap map[string]Unit

// LocationMap resolves location codes case-insensitively.
type LocationMap map[string]Location

// CompartmentMap resolves compartment paths case-insensitively.
type CompartmentMap map[string]Compartment

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// DefaultUnits returns the built-in unit mappings.
func DefaultUnits() UnitMap {
	return UnitMap{
		"kg": {Name: "kg", UnitUID: "20aadc24-a391-41cf-b340-3e4529f44bde",
			Quantity: "Mass", QuantityUID: "93a60a56-a3c8-11da-a746-0800200b9a66", Factor: 1},
		"m2*a": {Name: "m2*a", UnitUID: "c7266b67-4ea2-457f-b391-9b94e26e195a",
			Quantity: "Area*time", QuantityUID: "93a60a56-a3c8-21da-a746-0800200c9a66", Factor: 1},
	}
}

// DefaultLocations returns the built-in location mappings.
func DefaultLocations() LocationMap {
	return LocationMap{
		"us":    {Code: "US", Name: "United States", UID: "0b3b97fa-6688-3c56-88ee-4ae80ec0c3c2"},
		"us-ga": {Code: "US-GA", Name: "United States, Georgia", UID: "2b701fc6-ef0e-3b9a-9f4d-631863e904f6"},
	}
}

// DefaultCompartments returns the built-in compartment mappings.
func DefaultCompartments() CompartmentMap {
	c := Compartment{Compartment: "air", SubCompartment: "unspecified",
		UID: "2d9498c8-6873-45e1-af33-e1a298c119b9", Direction: "output"}
	return CompartmentMap{c.Key(): c}
}

// ReadUnits reads rows of: name, unit uid, quantity, quantity uid[, factor].
func ReadUnits(rows [][]string) (UnitMap, error) {
	m := UnitMap{}
	for i, row := range rows {
		u := Unit{
			Name:        Field(row, 0),
			UnitUID:     Field(row, 1),
			Quantity:    Field(row, 2),
			QuantityUID: Field(row, 3),
			Factor:      1,
		}
		if f := Field(row, 4); f != "" {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("unit row %d factor %q: %w", i+1, f, err)
			}
			u.Factor = v
		}
		m[norm(u.Name)] = u
	}
	return m, nil
}

// ReadLocations reads rows of: code, name, uid.
func ReadLocations(rows [][]string) LocationMap {
	m := LocationMap{}
	for _, row := range rows {
		l := Location{Code: Field(row, 0), Name: Field(row, 1), UID: Field(row, 2)}
		m[norm(l.Code)] = l
	}
	return m
}

// ReadCompartments reads rows of: compartment, sub-compartment, uid, direction.
func ReadCompartments(rows [][]string) CompartmentMap {
	m := CompartmentMap{}
	for _, row := range rows {
		c := Compartment{
			Compartment:    Field(row, 0),
			SubCompartment: Field(row, 1),
			UID:            Field(row, 2),
			Direction:      norm(Field(row, 3)),
		}
		m[c.Key()] = c
	}
	return m
}

// Data is the reference data context a model is resolved against. It is an
// explicit value: build it once (defaults or files) and pass it along.
type Data struct {
	Units        UnitMap
	Locations    LocationMap
	Compartments CompartmentMap

	log logging.Logger
}

// DataOption configures a Data value.
type DataOption func(*Data)

// WithDataLogger sets the logger used for unresolved lookups.
func WithDataLogger(l logging.Logger) DataOption {
	return func(d *Data) { d.log = l }
}

// NewData builds a context; nil maps are replaced by the built-in defaults.
func NewData(units UnitMap, locations LocationMap, compartments CompartmentMap, opts ...DataOption) *Data {
	if units == nil {
		units = DefaultUnits()
	}
	if locations == nil {
		locations = DefaultLocations()
	}
	if compartments == nil {
		compartments = DefaultCompartments()
	}
	d := &Data{Units: units, Locations: locations, Compartments: compartments}
	for _, o := range opts {
		o(d)
	}
	d.log = logging.OrDefault(d.log).Named("ref")
	return d
}

// DefaultData is NewData with every map defaulted.
func DefaultData(opts ...DataOption) *Data { return NewData(nil, nil, nil, opts...) }

// TryUnit resolves a unit name.
func (d *Data) TryUnit(name string) (Unit, bool) {
	u, ok := d.Units[norm(name)]
	return u, ok
}

// Unit resolves a unit name. Unknown names are logged and answered with a
// placeholder carrying the name and factor 1.
func (d *Data) Unit(name string) Unit {
	if u, ok := d.TryUnit(name); ok {
		return u
	}
	d.log.Warn("unknown unit", logging.String("unit", name))
	return Unit{Name: name, Factor: 1}
}

// TryLocation resolves a location code.
func (d *Data) TryLocation(code string) (Location, bool) {
	l, ok := d.Locations[norm(code)]
	return l, ok
}

// Location resolves a location code; unknown codes are logged and answered
// with a placeholder carrying the code.
func (d *Data) Location(code string) Location {
	if l, ok := d.TryLocation(code); ok {
		return l
	}
	d.log.Warn("unknown location", logging.String("location", code))
	return Location{Code: code}
}

// TryCompartment resolves a "compartment/sub" path.
func (d *Data) TryCompartment(path string) (Compartment, bool) {
	c, ok := d.Compartments[norm(path)]
	return c, ok
}

// Compartment resolves the compartment of a flow; unknown paths are logged
// and answered with a placeholder.
func (d *Data) Compartment(f ElemFlow) Compartment {
	if c, ok := d.TryCompartment(f.CompartmentKey()); ok {
		return c
	}
	d.log.Warn("unknown compartment", logging.String("compartment", f.CompartmentKey()))
	return Compartment{Compartment: f.Category, SubCompartment: f.SubCategory}
}
