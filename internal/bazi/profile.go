package bazi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloudeng.io/errors"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/bazi-api/internal/calendar"
	"github.com/zapponejosh/bazi-api/internal/solartime"
)

// Gender of the chart subject. It is recorded but does not yet affect the
// direction of the dayun sequence.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// IsValid checks if a gender is valid.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// DisplayName returns the Chinese label of the gender.
func (g Gender) DisplayName() string {
	switch g {
	case GenderMale:
		return "男"
	case GenderFemale:
		return "女"
	}
	return ""
}

// Category groups profiles for listing.
type Category string

const (
	CategorySelf      Category = "self"
	CategoryFamily    Category = "family"
	CategoryFriend    Category = "friend"
	CategoryCelebrity Category = "celebrity"
	CategoryEvent     Category = "event"
)

// ValidCategories returns all valid profile categories.
func ValidCategories() []Category {
	return []Category{
		CategorySelf,
		CategoryFamily,
		CategoryFriend,
		CategoryCelebrity,
		CategoryEvent,
	}
}

// IsValid checks if a category is valid.
func (c Category) IsValid() bool {
	for _, valid := range ValidCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// Profile is the birth record a chart is computed from.
//
// BirthDateTime is a civil, zone-naive time: only its wall-clock fields are
// read, and they are interpreted in TimeZone.
type Profile struct {
	ID       int64    `json:"id" yaml:"id,omitempty"`
	Nickname string   `json:"nickname" yaml:"nickname"`
	Gender   Gender   `json:"gender" yaml:"gender"`
	Category Category `json:"category" yaml:"category"`

	BirthDateTime    time.Time `json:"birth_date_time" yaml:"birth_date_time"`
	TimeZone         string    `json:"time_zone" yaml:"time_zone"`
	IsDaylightSaving bool      `json:"is_daylight_saving" yaml:"is_daylight_saving"`

	BirthPlace     string  `json:"birth_place" yaml:"birth_place,omitempty"`
	BirthLatitude  float64 `json:"birth_latitude" yaml:"birth_latitude"`
	BirthLongitude float64 `json:"birth_longitude" yaml:"birth_longitude"`

	CurrentPlace     *string  `json:"current_place,omitempty" yaml:"current_place,omitempty"`
	CurrentLatitude  *float64 `json:"current_latitude,omitempty" yaml:"current_latitude,omitempty"`
	CurrentLongitude *float64 `json:"current_longitude,omitempty" yaml:"current_longitude,omitempty"`

	CreatedAt      time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
	IsLastSelected bool      `json:"is_last_selected" yaml:"is_last_selected,omitempty"`
}

// Validate checks the fields a chart calculation or the profile store
// depends on and reports every problem found.
func (p Profile) Validate() error {
	errs := &errors.M{}

	if strings.TrimSpace(p.Nickname) == "" {
		errs.Append(errors.New("nickname is required"))
	}
	if !p.Gender.IsValid() {
		errs.Append(fmt.Errorf("gender must be one of: male, female; got %q", p.Gender))
	}
	if p.Category != "" && !p.Category.IsValid() {
		errs.Append(fmt.Errorf("category must be one of: self, family, friend, celebrity, event; got %q", p.Category))
	}
	if p.BirthDateTime.IsZero() {
		errs.Append(errors.New("birth_date_time is required"))
	}
	if _, err := solartime.LoadZone(p.TimeZone); err != nil {
		errs.Append(fmt.Errorf("time_zone: %w", err))
	}
	if p.BirthLongitude < -180 || p.BirthLongitude > 180 {
		errs.Append(fmt.Errorf("birth_longitude must be between -180 and 180, got %v", p.BirthLongitude))
	}
	if p.BirthLatitude < -90 || p.BirthLatitude > 90 {
		errs.Append(fmt.Errorf("birth_latitude must be between -90 and 90, got %v", p.BirthLatitude))
	}

	return errs.Err()
}

// plainProfile has Profile's fields without its marshalling methods.
type plainProfile Profile

// MarshalJSON writes BirthDateTime as a zone-naive "YYYY-MM-DDTHH:MM:SS".
func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		plainProfile
		BirthDateTime string `json:"birth_date_time"`
	}{
		plainProfile:  plainProfile(p),
		BirthDateTime: calendar.FormatDateTime(p.BirthDateTime),
	})
}

// UnmarshalJSON accepts any layout calendar.ParseDateTime does for
// birth_date_time. A missing value leaves BirthDateTime zero.
func (p *Profile) UnmarshalJSON(data []byte) error {
	aux := struct {
		*plainProfile
		BirthDateTime string `json:"birth_date_time"`
	}{plainProfile: (*plainProfile)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.BirthDateTime == "" {
		p.BirthDateTime = time.Time{}
		return nil
	}
	t, err := calendar.ParseDateTime(aux.BirthDateTime)
	if err != nil {
		return fmt.Errorf("birth_date_time: %w", err)
	}
	p.BirthDateTime = t
	return nil
}

// MarshalYAML writes BirthDateTime the same way as MarshalJSON.
func (p Profile) MarshalYAML() (interface{}, error) {
	var node yaml.Node
	if err := node.Encode(plainProfile(p)); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "birth_date_time" {
			node.Content[i+1].SetString(calendar.FormatDateTime(p.BirthDateTime))
		}
	}
	return &node, nil
}

// UnmarshalYAML reads birth_date_time the same way as UnmarshalJSON.
func (p *Profile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: profile must be a mapping", node.Line)
	}

	rest := *node
	rest.Content = make([]*yaml.Node, 0, len(node.Content))
	var birth *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "birth_date_time" {
			birth = node.Content[i+1]
			continue
		}
		rest.Content = append(rest.Content, node.Content[i], node.Content[i+1])
	}

	var plain plainProfile
	if err := rest.Decode(&plain); err != nil {
		return err
	}
	*p = Profile(plain)

	if birth == nil || birth.Value == "" {
		return nil
	}
	t, err := calendar.ParseDateTime(birth.Value)
	if err != nil {
		return fmt.Errorf("line %d: birth_date_time: %w", birth.Line, err)
	}
	p.BirthDateTime = t
	return nil
}
