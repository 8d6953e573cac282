package report

import (
	"context"

	"hallway/internal/model"
	"hallway/internal/store"
)

// Data holds every record set needed to render the report.
type Data struct {
	Consents     []model.ConsentRecord
	Demographics []model.DemographicRecord
	Tasks        []model.TaskRecord
	Exits        []model.ExitRecord
}

// Load reads all four record sets from the store. limit caps the rows
// read per table; limit <= 0 reads everything.
func Load(ctx context.Context, st store.Store, limit int) (Data, error) {
	consents, err := st.Consents(ctx, limit)
	if err != nil {
		return Data{}, err
	}
	demographics, err := st.Demographics(ctx, limit)
	if err != nil {
		return Data{}, err
	}
	tasks, err := st.Tasks(ctx, limit)
	if err != nil {
		return Data{}, err
	}
	exits, err := st.Exits(ctx, limit)
	if err != nil {
		return Data{}, err
	}
	return Data{
		Consents:     consents,
		Demographics: demographics,
		Tasks:        tasks,
		Exits:        exits,
	}, nil
}
