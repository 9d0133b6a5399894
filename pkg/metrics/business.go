package metrics

// IncrementEntityCreated increments the creation counter of an entity
func (m *Metrics) IncrementEntityCreated(entity string) {
	m.safeExecute("IncrementEntityCreated", func() {
		m.EntityCreatedTotal.WithLabelValues(entity).Inc()
	})
}

// SetEntitiesTotal sets the row count gauge of an entity
func (m *Metrics) SetEntitiesTotal(entity string, count int64) {
	m.safeExecute("SetEntitiesTotal", func() {
		m.EntitiesTotal.WithLabelValues(entity).Set(float64(count))
	})
}

// RecordBusinessEvent counts a domain event (license_approved, license_expired, user_created...)
func (m *Metrics) RecordBusinessEvent(event string, n int) {
	m.safeExecute("RecordBusinessEvent", func() {
		m.BusinessEventsTotal.WithLabelValues(event).Add(float64(n))
	})
}
