package store

import (
	"context"
	"time"
)

// beginSync atomically flips a resource into its loading state. It returns
// false when a sync for that resource is already in flight, which suppresses
// the re-entrant call at entry.
func (s *Store) beginSync(res Resource) bool {
	_, ok := s.updateIf(
		func(st AppState) bool { return !st.Loading[res] },
		func(st *AppState) {
			st.Loading[res] = true
			delete(st.Errors, res)
		},
	)
	return ok
}

// finishSync records the outcome of a sync run. The loading flag clears on
// every path; on failure the previous data is left untouched and only the
// error message is recorded.
func (s *Store) finishSync(res Resource, start time.Time, errMsg string, apply func(*AppState)) {
	s.update(func(st *AppState) {
		st.Loading[res] = false
		if errMsg != "" {
			st.Errors[res] = errMsg
			return
		}
		st.LastSync[res] = time.Now()
		apply(st)
	})
	if s.syncMetrics != nil {
		s.syncMetrics.ObserveSync(string(res), time.Since(start).Seconds(), errMsg == "")
	}
}

// SyncTreatments refreshes the treatment list from the server, replacing the
// local array wholesale on success.
func (s *Store) SyncTreatments(ctx context.Context) {
	if !s.beginSync(ResourceTreatments) {
		return
	}
	start := time.Now()

	page, resp := s.treatments.List(ctx, 1, s.cfg.PageSize)
	if !resp.Success {
		s.finishSync(ResourceTreatments, start, resp.Error, nil)
		return
	}
	s.finishSync(ResourceTreatments, start, "", func(st *AppState) {
		st.Treatments = page.Items
	})
}

// SyncProducts refreshes the product list from the server
func (s *Store) SyncProducts(ctx context.Context) {
	if !s.beginSync(ResourceProducts) {
		return
	}
	start := time.Now()

	products, resp := s.products.List(ctx, "")
	if !resp.Success {
		s.finishSync(ResourceProducts, start, resp.Error, nil)
		return
	}
	s.finishSync(ResourceProducts, start, "", func(st *AppState) {
		st.Products = products
	})
}

// SyncFertilizations refreshes the fertilization list from the server
func (s *Store) SyncFertilizations(ctx context.Context) {
	if !s.beginSync(ResourceFertilizations) {
		return
	}
	start := time.Now()

	fertilizations, resp := s.fertilizations.List(ctx)
	if !resp.Success {
		s.finishSync(ResourceFertilizations, start, resp.Error, nil)
		return
	}
	s.finishSync(ResourceFertilizations, start, "", func(st *AppState) {
		st.Fertilizations = fertilizations
	})
}

// SyncReports refreshes the report list from the server
func (s *Store) SyncReports(ctx context.Context) {
	if !s.beginSync(ResourceReports) {
		return
	}
	start := time.Now()

	reports, resp := s.reports.List(ctx)
	if !resp.Success {
		s.finishSync(ResourceReports, start, resp.Error, nil)
		return
	}
	s.finishSync(ResourceReports, start, "", func(st *AppState) {
		st.Reports = reports
	})
}

// SyncWeather replaces the weather snapshot wholesale. Weather is never
// merged field by field.
func (s *Store) SyncWeather(ctx context.Context) {
	if !s.beginSync(ResourceWeather) {
		return
	}
	start := time.Now()

	weather, resp := s.weather.Current(ctx)
	if !resp.Success {
		s.finishSync(ResourceWeather, start, resp.Error, nil)
		return
	}
	s.finishSync(ResourceWeather, start, "", func(st *AppState) {
		st.Weather = weather
	})
}

// SyncFarm refreshes the farm master record
func (s *Store) SyncFarm(ctx context.Context) {
	if !s.beginSync(ResourceFarm) {
		return
	}
	start := time.Now()

	farm, resp := s.farm.Get(ctx)
	if !resp.Success {
		s.finishSync(ResourceFarm, start, resp.Error, nil)
		return
	}
	s.finishSync(ResourceFarm, start, "", func(st *AppState) {
		st.Farm = farm
	})
}

// SyncNotifications refreshes the operator's notifications
func (s *Store) SyncNotifications(ctx context.Context) {
	notifications, resp := s.notifications.List(ctx)
	if !resp.Success {
		return
	}
	s.update(func(st *AppState) {
		st.Notifications = notifications
	})
}

// SyncAll refreshes every synced resource
func (s *Store) SyncAll(ctx context.Context) {
	s.SyncTreatments(ctx)
	s.SyncProducts(ctx)
	s.SyncFertilizations(ctx)
	s.SyncWeather(ctx)
	s.SyncReports(ctx)
	s.SyncFarm(ctx)
	s.SyncNotifications(ctx)
}
