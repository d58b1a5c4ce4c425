package stage

import (
	"github.com/samber/lo"

	"group_project_service/internal/domain/entity"
)

// ComputeState derives the completion state of a stage for a workgroup from
// its members and the users that completed the stage.
func ComputeState(usersInGroup, completedUsers []int) entity.StageState {
	if len(usersInGroup) == 0 || len(completedUsers) == 0 {
		return entity.StageNotStarted
	}
	if lo.Every(completedUsers, usersInGroup) {
		return entity.StageCompleted
	}
	if lo.Some(completedUsers, usersInGroup) {
		return entity.StageIncomplete
	}
	return entity.StageNotStarted
}
