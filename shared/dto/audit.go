package dto

import (
	"fleetops/shared/constant"
	"fleetops/shared/model"
	"fleetops/shared/timezone"
)

type Audit struct {
	CreatedAt string `json:"created_at"`
	CreatedBy string `json:"created_by"`
}

// FromModel renders the audit timestamp in the application timezone.
func (a *Audit) FromModel(audit model.Audit) {
	a.CreatedAt = timezone.Format(audit.CreatedAt, constant.DateFormat)
	a.CreatedBy = audit.CreatedBy
}
