package approval

// Stage is a step in the fixed approval pipeline. An application moves
// department_manager → general_manager → hr, then lands in the
// terminal completed pseudo-stage.
type Stage string

const (
	StageDepartmentManager Stage = "department_manager"
	StageGeneralManager    Stage = "general_manager"
	StageHR                Stage = "hr"
	StageCompleted         Stage = "completed"
)

// StageInfo describes who must act at a stage and where an approval
// sends the application next.
type StageInfo struct {
	RequiredRole Role
	Next         Stage
}

var pipeline = map[Stage]StageInfo{
	StageDepartmentManager: {RequiredRole: RoleDepartmentManager, Next: StageGeneralManager},
	StageGeneralManager:    {RequiredRole: RoleGeneralManager, Next: StageHR},
	StageHR:                {RequiredRole: RoleHR, Next: StageCompleted},
}

// Info returns the stage configuration. The terminal completed stage
// has no configuration: approvals are not possible there.
func Info(s Stage) (StageInfo, bool) {
	info, ok := pipeline[s]
	return info, ok
}

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// returnStages maps the role that requested a revision to the stage
// the application rewinds to when the revision is approved.
var returnStages = map[Role]Stage{
	RoleDepartmentManager: StageDepartmentManager,
	RoleGeneralManager:    StageGeneralManager,
	RoleHRSupervisor:      StageHR,
	RoleHRUser:            StageHR,
	RoleAdmin:             StageHR,
}

// ResolveReturnStage returns the stage to rewind to for a revision
// requested by the given role. Unknown roles fall back to the first
// stage so the application re-runs the whole pipeline.
func ResolveReturnStage(requester Role) Stage {
	if stage, ok := returnStages[requester]; ok {
		return stage
	}
	return StageDepartmentManager
}
