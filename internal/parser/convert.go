package parser

import "strconv"

// Records converts a permissive-dialect report into melt-log records ready
// for storage. Header-level fields (date, supervisor, participants) are
// copied onto every melt; a flat mold list fans out to sectors A-D with the
// pour temperature repeated per populated sector.
func (r *ParsedShiftReport) Records() []PlavkaRecord {
	records := make([]PlavkaRecord, 0, len(r.Melts))
	for _, melt := range r.Melts {
		rec := PlavkaRecord{Raw: map[string]string{}}

		rec.Date = r.Header.Date
		rec.Supervisor = r.Header.Supervisor
		for i := 0; i < len(rec.Participants) && i < len(r.Header.Participants); i++ {
			rec.Participants[i] = r.Header.Participants[i]
		}

		rec.MeltNumber = strconv.Itoa(melt.Number)
		rec.ClusterNumber = melt.Cluster
		rec.CastingName = melt.Casting
		rec.ExperimentType = melt.GatingSystem
		rec.RouteCard = melt.RouteCard
		rec.PourTime = melt.PourTime
		if melt.Created != "" {
			rec.Raw["Статус"] = melt.Created
		}

		molds := normalizeMolds(melt.Molds)
		for i := range rec.Sectors {
			if i < len(molds) {
				rec.Sectors[i].Molds = molds[i]
				rec.Sectors[i].Temperature = melt.Temperature
			}
		}

		rec.AccountNumber = GenerateAccountNumber(rec.Date, rec.MeltNumber)
		rec.IDPlavka = GenerateMeltID(rec.Date, rec.MeltNumber)

		records = append(records, rec)
	}
	return records
}
