package model

// RenderModeKind tags the variant held by a RenderMode.
type RenderModeKind int

const (
	RenderModeBlackout RenderModeKind = iota
	RenderModeScene
	RenderModeFixtureDebug
	RenderModeGroupDebug
	RenderModeShow
)

// RenderMode selects what the output driver loop should produce each
// frame.
type RenderMode struct {
	Kind     RenderModeKind
	SceneID  uint64 // RenderModeScene
	OutputID uint64 // RenderModeFixtureDebug
	GroupID  uint64 // RenderModeGroupDebug
}
