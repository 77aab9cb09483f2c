package pipeline

// State is a step of one pipeline run. Runs move strictly forward:
//
//	Start → ArgsParsed → Building → Built|BuildFailed →
//	ResolvingArtifact → ArtifactResolved|PlatformUnknown →
//	[ArtifactMissing] → GeneratingBindings → Done|BindgenFailed
type State string

const (
	StateStart              State = "Start"
	StateArgsParsed         State = "ArgsParsed"
	StateBuilding           State = "Building"
	StateBuilt              State = "Built"
	StateBuildFailed        State = "BuildFailed"
	StateResolvingArtifact  State = "ResolvingArtifact"
	StateArtifactResolved   State = "ArtifactResolved"
	StatePlatformUnknown    State = "PlatformUnknown"
	StateArtifactMissing    State = "ArtifactMissing"
	StateGeneratingBindings State = "GeneratingBindings"
	StateDone               State = "Done"
	StateBindgenFailed      State = "BindgenFailed"
)

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	switch s {
	case StateBuildFailed, StatePlatformUnknown, StateArtifactMissing, StateBindgenFailed, StateDone:
		return true
	}
	return false
}

// Failed reports whether s is a terminal failure.
func (s State) Failed() bool {
	return s.Terminal() && s != StateDone
}

// Phase is a user-visible stage that gets start and completion messages.
type Phase int

const (
	PhaseBuild Phase = iota
	PhaseBindgen
)

// Message is the progress line printed when the phase starts.
func (p Phase) Message() string {
	switch p {
	case PhaseBuild:
		return "Building the library..."
	case PhaseBindgen:
		return "Generating bindings..."
	}
	return ""
}

// Reporter receives progress for each phase.
type Reporter interface {
	PhaseStarted(p Phase)
	PhaseFinished(p Phase)
}

type nopReporter struct{}

func (nopReporter) PhaseStarted(Phase)  {}
func (nopReporter) PhaseFinished(Phase) {}
