package medication

// SeedIfEmpty inserts a small starter set so a fresh install has something
// to show. Returns the current list either way.
func (s *Store) SeedIfEmpty(deviceZone string) ([]Medication, error) {
	existing, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	seeds := []Medication{
		{
			Name:            "Lisinopril",
			CanonicalName:   "Lisinopril",
			RxCUI:           "29046",
			DosageText:      "10mg",
			Form:            FormTablet,
			Frequency:       Daily,
			PrimaryTime:     "08:00",
			ScheduledTimes:  []string{"08:00"},
			OriginTimezone:  deviceZone,
			Color:           "blue",
			Stock:           5, // low on purpose, demonstrates the refill alert
			RefillThreshold: 7,
		},
		{
			Name:            "Metformin",
			CanonicalName:   "Metformin",
			RxCUI:           "6809",
			DosageText:      "500mg",
			Form:            FormTablet,
			Frequency:       TwiceDaily,
			PrimaryTime:     "08:00",
			ScheduledTimes:  []string{"08:00", "20:00"},
			OriginTimezone:  deviceZone,
			Notes:           "Take with food",
			Color:           "emerald",
			Stock:           56,
			RefillThreshold: 10,
		},
		{
			Name:            "Atorvastatin",
			CanonicalName:   "Atorvastatin",
			RxCUI:           "83367",
			DosageText:      "20mg",
			Form:            FormTablet,
			Frequency:       Daily,
			PrimaryTime:     "20:00",
			ScheduledTimes:  []string{"20:00"},
			OriginTimezone:  deviceZone,
			Color:           "purple",
			Stock:           30,
			RefillThreshold: 7,
		},
	}

	for i := range seeds {
		if err := s.Create(&seeds[i]); err != nil {
			return nil, err
		}
	}
	return seeds, nil
}
