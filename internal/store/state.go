package store

import (
	"encoding/json"
	"time"

	"github.com/enzomar/agrinote/internal/model"
)

// Resource identifies one synced resource kind
type Resource string

const (
	ResourceTreatments     Resource = "treatments"
	ResourceProducts       Resource = "products"
	ResourceFertilizations Resource = "fertilizations"
	ResourceReports        Resource = "reports"
	ResourceWeather        Resource = "weather"
	ResourceFarm           Resource = "farm"
)

// mutableResources are the resource kinds that accept offline mutations,
// in the order their pending queues are replayed.
var mutableResources = []Resource{ResourceTreatments, ResourceProducts, ResourceFertilizations}

// Action is the kind of a queued offline mutation
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// PendingOperation is a recorded intent to create, update or delete a record,
// queued because the store was offline when the mutation was requested.
// It belongs to AppState.PendingSync and is removed once replayed.
type PendingOperation struct {
	Action   Action          `json:"action"`
	ID       string          `json:"id,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Attempts int             `json:"attempts,omitempty"`
}

// AppState is the single application state snapshot. It is replaced
// atomically on every change; no field is ever mutated in place after a
// snapshot has been handed out.
type AppState struct {
	Treatments     []model.Treatment       `json:"treatments"`
	Products       []model.Product         `json:"products"`
	Fertilizations []model.Fertilization   `json:"fertilizations"`
	Reports        []model.Report          `json:"reports"`
	Weather        *model.WeatherCondition `json:"weather,omitempty"`
	Farm           *model.Farm             `json:"farm,omitempty"`
	Notifications  []model.Notification    `json:"notifications"`

	Loading  map[Resource]bool      `json:"loading"`
	Errors   map[Resource]string    `json:"errors"`
	LastSync map[Resource]time.Time `json:"lastSync"`

	Offline     bool                            `json:"offline"`
	PendingSync map[Resource][]PendingOperation `json:"pendingSync"`
}

func initialState() AppState {
	return AppState{
		Treatments:     []model.Treatment{},
		Products:       []model.Product{},
		Fertilizations: []model.Fertilization{},
		Reports:        []model.Report{},
		Notifications:  []model.Notification{},
		Loading:        make(map[Resource]bool),
		Errors:         make(map[Resource]string),
		LastSync:       make(map[Resource]time.Time),
		PendingSync: map[Resource][]PendingOperation{
			ResourceTreatments:     {},
			ResourceProducts:       {},
			ResourceFertilizations: {},
		},
	}
}

// clone copies the snapshot one level deep: slice and map headers are fresh,
// so appends and key writes on the copy never touch the original.
func (s AppState) clone() AppState {
	next := s

	next.Treatments = append([]model.Treatment(nil), s.Treatments...)
	next.Products = append([]model.Product(nil), s.Products...)
	next.Fertilizations = append([]model.Fertilization(nil), s.Fertilizations...)
	next.Reports = append([]model.Report(nil), s.Reports...)
	next.Notifications = append([]model.Notification(nil), s.Notifications...)

	next.Loading = make(map[Resource]bool, len(s.Loading))
	for k, v := range s.Loading {
		next.Loading[k] = v
	}
	next.Errors = make(map[Resource]string, len(s.Errors))
	for k, v := range s.Errors {
		next.Errors[k] = v
	}
	next.LastSync = make(map[Resource]time.Time, len(s.LastSync))
	for k, v := range s.LastSync {
		next.LastSync[k] = v
	}
	next.PendingSync = make(map[Resource][]PendingOperation, len(s.PendingSync))
	for k, v := range s.PendingSync {
		next.PendingSync[k] = append([]PendingOperation(nil), v...)
	}

	return next
}

const (
	stateKey      = "app_state"
	schemaVersion = 1
)

// persistedState is the durable subset of AppState. Loading and error flags
// are transient and never stored.
type persistedState struct {
	SchemaVersion  int                             `json:"schemaVersion"`
	Treatments     []model.Treatment               `json:"treatments"`
	Products       []model.Product                 `json:"products"`
	Fertilizations []model.Fertilization           `json:"fertilizations"`
	Reports        []model.Report                  `json:"reports"`
	Weather        *model.WeatherCondition         `json:"weather,omitempty"`
	Farm           *model.Farm                     `json:"farm,omitempty"`
	Notifications  []model.Notification            `json:"notifications"`
	LastSync       map[Resource]time.Time          `json:"lastSync"`
	PendingSync    map[Resource][]PendingOperation `json:"pendingSync"`
}

func toPersisted(s AppState) persistedState {
	return persistedState{
		SchemaVersion:  schemaVersion,
		Treatments:     s.Treatments,
		Products:       s.Products,
		Fertilizations: s.Fertilizations,
		Reports:        s.Reports,
		Weather:        s.Weather,
		Farm:           s.Farm,
		Notifications:  s.Notifications,
		LastSync:       s.LastSync,
		PendingSync:    s.PendingSync,
	}
}
