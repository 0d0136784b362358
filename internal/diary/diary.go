// Package diary records what a user ate, day by day, and evaluates foods
// against the DRI reference table.
//
// Nothing in the model points back at its owner: a food does not know its
// day and a day does not know its user. Demographics reach a lookup as an
// explicit reference.Subject.
package diary

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/tphakala/nutridri/internal/dri"
	"github.com/tphakala/nutridri/internal/errors"
	"github.com/tphakala/nutridri/internal/reference"
)

// DefaultDays is the number of days Days returns when n is not positive.
const DefaultDays = 7

// User owns a list of days in the order they were added.
type User struct {
	ID        uuid.UUID
	Name      string
	JoinDate  time.Time
	Sex       dri.Sex
	Age       float64
	WeightLbs float64

	days []*Day
}

// NewUser returns a user joined now.
func NewUser(name string, sex dri.Sex, age, weightLbs float64) *User {
	return &User{
		ID:        uuid.New(),
		Name:      name,
		JoinDate:  time.Now(),
		Sex:       sex,
		Age:       age,
		WeightLbs: weightLbs,
	}
}

func (u *User) String() string {
	return fmt.Sprintf("Name: %s\nAge: %g\nWeight: %g", u.Name, u.Age, u.WeightLbs)
}

// Profile returns the subject used for DRI lookups.
func (u *User) Profile() reference.Subject {
	return reference.Subject{Sex: u.Sex, Age: u.Age}
}

// AddDay adds the calendar day of date, or returns it if it already exists.
func (u *User) AddDay(date time.Time) *Day {
	date = civilDate(date)
	if d, ok := u.Day(date); ok {
		return d
	}
	d := &Day{Date: date}
	u.days = append(u.days, d)
	return d
}

// Days returns up to n days, most recently added first.
func (u *User) Days(n int) []*Day {
	if n <= 0 {
		n = DefaultDays
	}
	out := slices.Clone(u.days)
	slices.Reverse(out)
	return out[:min(n, len(out))]
}

// TotalDays returns the number of days recorded.
func (u *User) TotalDays() int { return len(u.days) }

// Day returns the day matching the calendar date of date.
func (u *User) Day(date time.Time) (*Day, bool) {
	date = civilDate(date)
	for _, d := range u.days {
		if d.Date.Equal(date) {
			return d, true
		}
	}
	return nil, false
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Day is the list of foods eaten on one date.
type Day struct {
	Date  time.Time
	foods []*Food
}

func (d *Day) String() string {
	return fmt.Sprintf("Date: %s\n%d food items", d.Date.Format(time.DateOnly), len(d.foods))
}

// AddFood appends f to the day.
func (d *Day) AddFood(f *Food) {
	d.foods = append(d.foods, f)
}

// Foods returns a copy of the day's foods.
func (d *Day) Foods() []*Food {
	return slices.Clone(d.foods)
}

// Food is a food item with its nutrient list, values per 100 g.
type Food struct {
	ID        uuid.UUID
	Name      string
	FdcID     int
	NdbNumber string
	Nutrients []Nutrient
}

// NewFood converts a search result item.
func NewFood(item *FoodItem) (*Food, error) {
	f := &Food{
		ID:        uuid.New(),
		Name:      item.Description,
		FdcID:     item.FdcID,
		NdbNumber: string(item.NdbNumber),
		Nutrients: make([]Nutrient, 0, len(item.FoodNutrients)),
	}
	for _, fn := range item.FoodNutrients {
		number, err := parseNutrientNumber(fn.NutrientNumber)
		if err != nil {
			return nil, errors.New(err).
				Context("food", item.Description).
				Context("nutrient", fn.NutrientName).
				Build()
		}
		f.Nutrients = append(f.Nutrients, Nutrient{
			Number: number,
			Name:   fn.NutrientName,
			Value:  fn.Value,
			Unit:   fn.UnitName,
		})
	}
	return f, nil
}

func (f *Food) String() string { return f.Name }

// FindNutrient returns the indices of nutrients whose name contains search, ignoring case.
func (f *Food) FindNutrient(search string) []int {
	fold := cases.Fold()
	needle := fold.String(search)
	idx := []int{}
	for i := range f.Nutrients {
		if strings.Contains(fold.String(f.Nutrients[i].Name), needle) {
			idx = append(idx, i)
		}
	}
	return idx
}

// NonzeroNutrients returns the indices of nutrients with a positive value.
func (f *Food) NonzeroNutrients() []int {
	idx := []int{}
	for i := range f.Nutrients {
		if f.Nutrients[i].Value > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// Nutrient returns the nutrient at idx.
func (f *Food) Nutrient(idx int) (Nutrient, error) {
	if idx < 0 || idx >= len(f.Nutrients) {
		return Nutrient{}, errors.Newf("nutrient index %d out of range, food has %d", idx, len(f.Nutrients)).
			Category(errors.CategoryNotFound).
			Build()
	}
	return f.Nutrients[idx], nil
}

// EFARatio is the omega-6 to omega-3 ratio of the food's PUFA entries,
// rounded to two places. It is 1 when only omega-6 is present and 0 when
// there is no omega-6.
// TODO: 18:2 and 18:3 totals can double count their own isomer rows.
func (f *Food) EFARatio() float64 {
	fold := cases.Fold()
	var n3, n6 float64
	for i := range f.Nutrients {
		name := fold.String(f.Nutrients[i].Name)
		if !strings.Contains(name, "pufa") {
			continue
		}
		switch {
		case strings.Contains(name, "18:3") || strings.Contains(name, "n-3"):
			n3 += f.Nutrients[i].Value
		case strings.Contains(name, "18:2") || strings.Contains(name, "n-6"):
			n6 += f.Nutrients[i].Value
		}
	}
	switch {
	case n3 == 0 && n6 > 0:
		return 1
	case n6 == 0:
		return 0
	}
	return math.RoundToEven(n6/n3*100) / 100
}

// Nutrient is one measured nutrient of a food.
type Nutrient struct {
	Number int     `yaml:"number"`
	Name   string  `yaml:"name"`
	Value  float64 `yaml:"value"`
	Unit   string  `yaml:"unit"`
}

func (n Nutrient) String() string {
	return fmt.Sprintf("%s: %g %s", n.Name, n.Value, n.Unit)
}

// Measurement returns n as a lookup input.
func (n Nutrient) Measurement() reference.Measurement {
	return reference.Measurement{NutrientID: n.Number, Value: n.Value, Unit: n.Unit}
}
