// Package resources declares the admin resource catalog. Each entry is a
// schema: the fields, constraints, and list columns for one backend
// collection. One generic manager controller serves them all.
package resources

import (
	"regexp"

	"github.com/flywindva/hicrew-tui/internal/schema"
)

var urlPattern = regexp.MustCompile(`^https?://\S+$`)

func urlField(name, label string, required bool) schema.Field {
	return schema.Field{
		Name:       name,
		Label:      label,
		Kind:       schema.Text,
		Required:   required,
		MaxLen:     2048,
		Pattern:    urlPattern,
		PatternMsg: label + " must be an http(s) URL",
	}
}

// All returns the full resource catalog in display order.
func All() []schema.Schema {
	return []schema.Schema{
		Aircraft(),
		Airlines(),
		Airports(),
		Ranks(),
		Fleet(),
		Hubs(),
		Routes(),
		Events(),
		NOTAMs(),
		Medals(),
		PilotMedals(),
		Paintkits(),
		Simulators(),
		SocialNetworks(),
		Documentation(),
		StaffList(),
		Rules(),
		Permissions(),
		JoinRequests(),
		FlightReports(),
	}
}

// ByResource looks a schema up by its endpoint path element.
func ByResource(resource string) (schema.Schema, bool) {
	for _, s := range All() {
		if s.Resource == resource {
			return s, true
		}
	}
	return schema.Schema{}, false
}

func Aircraft() schema.Schema {
	return schema.Schema{
		Resource:   "aircraft",
		Title:      "Aircraft",
		Capability: "manage_aircraft",
		Fields: []schema.Field{
			schema.ICAOField("icao", "ICAO code", 4, true),
			{Name: "manufacturer", Label: "Manufacturer", Kind: schema.Text, Required: true, MaxLen: 60},
			{Name: "range", Label: "Range (nm)", Kind: schema.Number, Required: true, Min: schema.Min(0)},
			{Name: "max_passengers", Label: "Max passengers", Kind: schema.Number, Min: schema.Min(0)},
			urlField("img", "Image URL", false),
		},
		Columns: []string{"id", "icao", "manufacturer", "range", "max_passengers"},
	}
}

func Airlines() schema.Schema {
	return schema.Schema{
		Resource:   "airlines",
		Title:      "Airlines",
		Capability: "manage_airlines",
		Fields: []schema.Field{
			schema.ICAOField("icao", "ICAO code", 3, true),
			{Name: "name", Label: "Name", Kind: schema.Text, Required: true, MaxLen: 80},
			{Name: "callsign", Label: "Radio callsign", Kind: schema.Text, MaxLen: 40},
			urlField("img", "Logo URL", false),
		},
		Columns: []string{"id", "icao", "name", "callsign"},
	}
}

func Airports() schema.Schema {
	latMin, latMax := schema.Range(-90, 90)
	lonMin, lonMax := schema.Range(-180, 180)
	return schema.Schema{
		Resource:   "airports",
		Title:      "Airports",
		Capability: "manage_airports",
		Fields: []schema.Field{
			schema.ICAOField("icao", "ICAO code", 4, true),
			{Name: "name", Label: "Name", Kind: schema.Text, Required: true, MaxLen: 120},
			{Name: "country", Label: "Country", Kind: schema.Text, MaxLen: 60},
			{Name: "latitude", Label: "Latitude", Kind: schema.Number, Min: latMin, Max: latMax},
			{Name: "longitude", Label: "Longitude", Kind: schema.Number, Min: lonMin, Max: lonMax},
		},
		Columns: []string{"id", "icao", "name", "country"},
	}
}

func Ranks() schema.Schema {
	return schema.Schema{
		Resource:   "ranks",
		Title:      "Ranks",
		Capability: "manage_ranks",
		Fields: []schema.Field{
			{Name: "name", Label: "Name", Kind: schema.Text, Required: true, MaxLen: 60},
			{Name: "hours", Label: "Hours required", Kind: schema.Number, Required: true, Min: schema.Min(0), Default: "0"},
			urlField("img", "Insignia URL", false),
		},
		Columns: []string{"id", "name", "hours"},
	}
}

func Fleet() schema.Schema {
	return schema.Schema{
		Resource:   "fleet",
		Title:      "Fleet",
		Capability: "manage_fleet",
		Fields: []schema.Field{
			{Name: "registration", Label: "Registration", Kind: schema.Text, Required: true, MaxLen: 10},
			{Name: "name", Label: "Unit name", Kind: schema.Text, MaxLen: 60},
			{Name: "aircraft_id", Label: "Aircraft", Kind: schema.ForeignKey, Required: true, Ref: "aircraft"},
			{Name: "airline_id", Label: "Airline", Kind: schema.ForeignKey, Required: true, Ref: "airlines"},
			{Name: "hub_id", Label: "Hub", Kind: schema.ForeignKey, Ref: "hubs"},
			{Name: "state", Label: "State", Kind: schema.Enum, Required: true, Options: []string{"active", "maintenance", "retired"}, Default: "active"},
		},
		Columns: []string{"id", "registration", "aircraft_id", "airline_id", "state"},
	}
}

func Hubs() schema.Schema {
	return schema.Schema{
		Resource:   "hubs",
		Title:      "Hubs",
		Capability: "manage_hubs",
		Fields: []schema.Field{
			{Name: "airport_id", Label: "Airport", Kind: schema.ForeignKey, Required: true, Ref: "airports"},
			{Name: "airline_id", Label: "Airline", Kind: schema.ForeignKey, Required: true, Ref: "airlines"},
		},
		Columns: []string{"id", "airport_id", "airline_id"},
	}
}

func Routes() schema.Schema {
	return schema.Schema{
		Resource:   "routes",
		Title:      "Routes",
		Capability: "manage_routes",
		Fields: []schema.Field{
			{Name: "flight_number", Label: "Flight number", Kind: schema.Text, Required: true, MaxLen: 8},
			schema.ICAOField("departure", "Departure ICAO", 4, true),
			schema.ICAOField("arrival", "Arrival ICAO", 4, true),
			{Name: "airline_id", Label: "Airline", Kind: schema.ForeignKey, Required: true, Ref: "airlines"},
			{Name: "duration", Label: "Duration (min)", Kind: schema.Number, Min: schema.Min(0)},
		},
		Columns: []string{"id", "flight_number", "departure", "arrival"},
	}
}

func Events() schema.Schema {
	return schema.Schema{
		Resource:   "events",
		Title:      "Events",
		Capability: "manage_events",
		Fields: []schema.Field{
			{Name: "text", Label: "Title", Kind: schema.Text, Required: true, MaxLen: 120},
			{Name: "description", Label: "Description", Kind: schema.Text, MaxLen: 2000},
			{Name: "start_date", Label: "Starts", Kind: schema.Date, Required: true},
			{Name: "end_date", Label: "Ends", Kind: schema.Date, Required: true},
			{Name: "points", Label: "Award points", Kind: schema.Number, Min: schema.Min(0)},
			urlField("img", "Banner URL", false),
		},
		Columns: []string{"id", "text", "start_date", "end_date"},
		Rules: []schema.Rule{
			schema.DateOrder("start_date", "end_date", "Event must end after it starts"),
		},
	}
}

func NOTAMs() schema.Schema {
	return schema.Schema{
		Resource:   "notams",
		Title:      "NOTAMs",
		Capability: "manage_notams",
		Fields: []schema.Field{
			{Name: "title", Label: "Title", Kind: schema.Text, Required: true, MaxLen: 120},
			{Name: "text", Label: "Text", Kind: schema.Text, Required: true, MaxLen: 4000},
			{Name: "activation_date", Label: "Active from", Kind: schema.Date, Required: true},
			{Name: "deactivation_date", Label: "Active until", Kind: schema.Date},
		},
		Columns: []string{"id", "title", "activation_date", "deactivation_date"},
		Rules: []schema.Rule{
			schema.DateOrder("activation_date", "deactivation_date", "Deactivation must come after activation"),
		},
	}
}

func Medals() schema.Schema {
	return schema.Schema{
		Resource:   "medals",
		Title:      "Medals",
		Capability: "manage_medals",
		Fields: []schema.Field{
			{Name: "text", Label: "Name", Kind: schema.Text, Required: true, MaxLen: 80},
			urlField("img", "Image URL", true),
		},
		Columns: []string{"id", "text"},
	}
}

func PilotMedals() schema.Schema {
	return schema.Schema{
		Resource:   "pilot-medals",
		Title:      "Pilot medals",
		Capability: "manage_medals",
		Fields: []schema.Field{
			{Name: "pilot_id", Label: "Pilot", Kind: schema.ForeignKey, Required: true, Ref: "staff-list"},
			{Name: "medal_id", Label: "Medal", Kind: schema.ForeignKey, Required: true, Ref: "medals"},
		},
		Columns: []string{"id", "pilot_id", "medal_id"},
	}
}

func Paintkits() schema.Schema {
	return schema.Schema{
		Resource:   "paintkits",
		Title:      "Paintkits",
		Capability: "manage_paintkits",
		Fields: []schema.Field{
			{Name: "name", Label: "Name", Kind: schema.Text, Required: true, MaxLen: 80},
			{Name: "aircraft_id", Label: "Aircraft", Kind: schema.ForeignKey, Required: true, Ref: "aircraft"},
			urlField("url", "Download URL", true),
		},
		Columns: []string{"id", "name", "aircraft_id"},
	}
}

func Simulators() schema.Schema {
	return schema.Schema{
		Resource:   "simulators",
		Title:      "Simulators",
		Capability: "manage_simulators",
		Fields: []schema.Field{
			{Name: "name", Label: "Name", Kind: schema.Text, Required: true, MaxLen: 60},
		},
		Columns: []string{"id", "name"},
	}
}

func SocialNetworks() schema.Schema {
	return schema.Schema{
		Resource:   "social-networks",
		Title:      "Social networks",
		Capability: "manage_socials",
		Fields: []schema.Field{
			{Name: "name", Label: "Name", Kind: schema.Text, Required: true, MaxLen: 40},
			urlField("url", "Profile URL", true),
			{Name: "icon", Label: "Icon", Kind: schema.Text, MaxLen: 40},
		},
		Columns: []string{"id", "name", "url"},
	}
}

func Documentation() schema.Schema {
	return schema.Schema{
		Resource:   "documentation",
		Title:      "Documentation",
		Capability: "manage_docs",
		Fields: []schema.Field{
			{Name: "name", Label: "Title", Kind: schema.Text, Required: true, MaxLen: 120},
			urlField("url", "Document URL", true),
			{Name: "category", Label: "Category", Kind: schema.Text, MaxLen: 60},
		},
		Columns: []string{"id", "name", "category"},
	}
}

func StaffList() schema.Schema {
	return schema.Schema{
		Resource:   "staff-list",
		Title:      "Staff",
		Capability: "manage_staff",
		Fields: []schema.Field{
			{Name: "name", Label: "Name", Kind: schema.Text, Required: true, MaxLen: 80},
			{Name: "role", Label: "Role", Kind: schema.Text, Required: true, MaxLen: 80},
			{Name: "order", Label: "Display order", Kind: schema.Number, Min: schema.Min(0), Default: "0"},
			urlField("img", "Photo URL", false),
		},
		Columns: []string{"id", "name", "role", "order"},
	}
}

func Rules() schema.Schema {
	return schema.Schema{
		Resource:   "rules",
		Title:      "Rules",
		Capability: "manage_rules",
		Fields: []schema.Field{
			{Name: "text", Label: "Rule text", Kind: schema.Text, Required: true, MaxLen: 2000},
			{Name: "order", Label: "Display order", Kind: schema.Number, Min: schema.Min(0), Default: "0"},
		},
		Columns: []string{"id", "order", "text"},
	}
}

func Permissions() schema.Schema {
	return schema.Schema{
		Resource:   "permissions",
		Title:      "Permissions",
		Capability: "manage_permissions",
		Fields: []schema.Field{
			{Name: "name", Label: "Name", Kind: schema.Text, Required: true, MaxLen: 60},
			{Name: "description", Label: "Description", Kind: schema.Text, MaxLen: 200},
			{Name: "pilot_id", Label: "Pilot", Kind: schema.ForeignKey, Ref: "staff-list"},
		},
		Columns: []string{"id", "name", "pilot_id"},
	}
}

func JoinRequests() schema.Schema {
	return schema.Schema{
		Resource:   "request-joins",
		Title:      "Join requests",
		Capability: "manage_join_requests",
		Fields: []schema.Field{
			{Name: "callsign", Label: "Requested callsign", Kind: schema.Text, Required: true, MaxLen: 10},
			{Name: "motivation", Label: "Motivation", Kind: schema.Text, MaxLen: 2000},
			{Name: "status", Label: "Status", Kind: schema.Enum, Required: true, Options: []string{"pending", "accepted", "rejected"}, Default: "pending"},
		},
		Columns: []string{"id", "callsign", "status"},
	}
}

// FlightReports is the PIREP form. It is not capability-gated; every pilot
// files their own reports.
func FlightReports() schema.Schema {
	return schema.Schema{
		Resource: "flights/reports",
		Title:    "Flight reports",
		Fields: []schema.Field{
			{Name: "flight_number", Label: "Flight number", Kind: schema.Text, Required: true, MaxLen: 8},
			schema.ICAOField("departure", "Departure ICAO", 4, true),
			schema.ICAOField("arrival", "Arrival ICAO", 4, true),
			{Name: "fleet_id", Label: "Fleet unit", Kind: schema.ForeignKey, Required: true, Ref: "fleet"},
			{Name: "departure_time", Label: "Departure time", Kind: schema.Date, Required: true},
			{Name: "arrival_time", Label: "Arrival time", Kind: schema.Date, Required: true},
			{Name: "fuel_used", Label: "Fuel used (kg)", Kind: schema.Number, Min: schema.Min(0)},
			{Name: "comments", Label: "Comments", Kind: schema.Text, MaxLen: 2000},
		},
		Columns: []string{"id", "flight_number", "departure", "arrival", "departure_time"},
		Rules: []schema.Rule{
			schema.DateOrder("departure_time", "arrival_time", "Arrival must come after departure"),
		},
	}
}
