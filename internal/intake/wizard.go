package intake

import "github.com/segmentio/ksuid"

const (
	StepCompany = iota
	StepRoles
	StepBudget
	StepConfirmation
)

var StepTitles = []string{"Company Info", "Developer Roles", "Budget & Timeline"}

// Wizard is the in-progress state of the company intake form
type Wizard struct {
	Step int
	Form FormData
}

func NewWizard() Wizard {
	return Wizard{Step: StepCompany, Form: DefaultFormData()}
}

// DefaultFormData returns an empty form with a single empty role
func DefaultFormData() FormData {
	return FormData{DeveloperRoles: []DeveloperRole{NewDeveloperRole()}}
}

func NewDeveloperRole() DeveloperRole {
	return DeveloperRole{
		ID:                 ksuid.New().String(),
		RequiredTechStack:  []string{},
		PreferredLanguages: []string{},
		NumberOfDevelopers: 1,
	}
}

func (w *Wizard) Next() {
	if w.Step < StepConfirmation {
		w.Step++
	}
}

func (w *Wizard) Prev() {
	if w.Step > StepCompany {
		w.Step--
	}
}

func (w *Wizard) AddRole() {
	w.Form.DeveloperRoles = append(w.Form.DeveloperRoles, NewDeveloperRole())
}

// RemoveRole drops the role with id, the last remaining role is never removed
func (w *Wizard) RemoveRole(id string) bool {
	if len(w.Form.DeveloperRoles) <= 1 {
		return false
	}
	for i, role := range w.Form.DeveloperRoles {
		if role.ID == id {
			w.Form.DeveloperRoles = append(w.Form.DeveloperRoles[:i], w.Form.DeveloperRoles[i+1:]...)
			return true
		}
	}
	return false
}

// SetASAP toggles the ASAP flag, turning it on clears any picked start date
func (w *Wizard) SetASAP(asap bool) {
	w.Form.IsASAP = asap
	if asap {
		w.Form.StartDate = nil
	}
}

func (w Wizard) Confirmed() bool {
	return w.Step == StepConfirmation
}
