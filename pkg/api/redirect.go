package api

import (
	"roadside/pkg/lifecycle"
	"roadside/pkg/models"
)

const (
	managerRequestsPath  = "/dashboard/manager/requests"
	managerMechanicsPath = "/dashboard/manager/mechanics"
	mechanicHomePath     = "/dashboard/mechanic"
	mechanicRequestsPath = "/dashboard/mechanic/requests"
)

// afterAssign is where the dashboard lands after an assignment. fromPath
// marks the /assign/{mechanicId} variant used from the request list.
func afterAssign(actor models.Actor, requestID string, fromPath bool) string {
	if actor.Role != models.RoleManager {
		return mechanicHomePath
	}
	if fromPath {
		return managerRequestsPath
	}
	return managerRequestsPath + "/" + requestID
}

func afterAction(actor models.Actor, requestID string, action lifecycle.Action) string {
	if action == lifecycle.ActionStart {
		return mechanicRequestsPath + "/" + requestID
	}
	if actor.Role == models.RoleManager {
		return managerRequestsPath + "/" + requestID
	}
	return mechanicHomePath
}

func afterToggle() string {
	return managerMechanicsPath
}
