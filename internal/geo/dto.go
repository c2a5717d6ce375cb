package geo

import "github.com/mygroup/mygroup-backend/pkg/db/models"

type CountryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type StateDTO struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Name      string `json:"name"`
}

type DistrictDTO struct {
	ID      int64  `json:"id"`
	StateID int64  `json:"state_id"`
	Name    string `json:"name"`
}

type EducationDTO struct {
	ID        int64  `json:"id"`
	Education string `json:"education"`
}

type ProfessionDTO struct {
	ID         int64  `json:"id"`
	Profession string `json:"profession"`
}

// RegisterMetadata bundles the option lists the registration form renders.
type RegisterMetadata struct {
	Countries   []CountryDTO    `json:"countries"`
	Education   []EducationDTO  `json:"education"`
	Professions []ProfessionDTO `json:"professions"`
}

func countriesFromModels(rows []models.Country) []CountryDTO {
	out := make([]CountryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, CountryDTO{ID: r.ID, Name: r.Name, Code: r.Code})
	}
	return out
}

func statesFromModels(rows []models.State) []StateDTO {
	out := make([]StateDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, StateDTO{ID: r.ID, CountryID: r.CountryID, Name: r.Name})
	}
	return out
}

func districtsFromModels(rows []models.District) []DistrictDTO {
	out := make([]DistrictDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, DistrictDTO{ID: r.ID, StateID: r.StateID, Name: r.Name})
	}
	return out
}

func educationsFromModels(rows []models.Education) []EducationDTO {
	out := make([]EducationDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, EducationDTO{ID: r.ID, Education: r.Education})
	}
	return out
}

func professionsFromModels(rows []models.Profession) []ProfessionDTO {
	out := make([]ProfessionDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProfessionDTO{ID: r.ID, Profession: r.Profession})
	}
	return out
}
