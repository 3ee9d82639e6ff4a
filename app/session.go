package app

import (
	"context"
	"fmt"
	"time"

	"studentrisk/adapters/tabular"
	"studentrisk/domain/core"
	"studentrisk/domain/student"
	"studentrisk/internal"
	"studentrisk/internal/config"
	"studentrisk/internal/errors"
	"studentrisk/internal/labeling"
	"studentrisk/internal/metrics"
	"studentrisk/internal/model"
	"studentrisk/internal/report"
)

// Stage is where a session is in its one-way bootstrap
type Stage int

const (
	StageUninitialized Stage = iota
	StageDataLoaded
	StageLabelDerived
	StageModelTrained
	StageReady
	StageHalted
)

func (s Stage) String() string {
	switch s {
	case StageUninitialized:
		return "uninitialized"
	case StageDataLoaded:
		return "data-loaded"
	case StageLabelDerived:
		return "label-derived"
	case StageModelTrained:
		return "model-trained"
	case StageReady:
		return "ready"
	case StageHalted:
		return "halted"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// BootstrapConfig fixes the dataset source and training parameters
type BootstrapConfig struct {
	DatasetPath string
	Delimiter   rune
	Train       model.TrainConfig
}

// BootstrapConfigFrom maps the process configuration onto a bootstrap config
func BootstrapConfigFrom(cfg *config.Config) BootstrapConfig {
	return BootstrapConfig{
		DatasetPath: cfg.Dataset.Path,
		Delimiter:   cfg.Dataset.Delimiter,
		Train:       model.DefaultTrainConfig(),
	}
}

// Dependencies are the optional collaborators of a session
type Dependencies struct {
	Logger  *internal.Logger
	Metrics *metrics.Recorder
	Charts  report.ChartRenderer
}

// Halt describes why a session stopped before training
type Halt struct {
	Message string
	Err     error
}

// Session owns the dataset, labels and trained model for the process lifetime.
// Everything is written once during Bootstrap and read-only afterwards.
type Session struct {
	ID        core.SessionID
	Stage     Stage
	StartedAt time.Time

	Table    *tabular.Table
	Labels   *labeling.Result
	Model    *model.Trained
	Renderer *report.Renderer
	Halt     *Halt

	logger  *internal.Logger
	metrics *metrics.Recorder
}

// Bootstrap reads the dataset and runs the remaining stages.
// Load and fit failures are returned as errors; a label failure yields a
// halted session the UI can still display.
func Bootstrap(ctx context.Context, cfg BootstrapConfig, deps Dependencies) (*Session, error) {
	s := newSession(deps)
	s.logger.Info("session %s starting, dataset %s", s.ID.Short(), cfg.DatasetPath)

	reader := tabular.NewReader(cfg.DatasetPath,
		tabular.WithDelimiter(cfg.Delimiter),
		tabular.WithLogger(s.logger),
	)
	table, err := reader.Read()
	if err != nil {
		s.logger.Error("dataset load failed: %v", err)
		return nil, errors.Wrap(err, "failed to load dataset")
	}

	if err := s.run(ctx, table, cfg.Train, deps.Charts); err != nil {
		return nil, err
	}
	return s, nil
}

// BootstrapTable runs the stages after loading on an already-read table
func BootstrapTable(ctx context.Context, table *tabular.Table, train model.TrainConfig, deps Dependencies) (*Session, error) {
	s := newSession(deps)
	if err := s.run(ctx, table, train, deps.Charts); err != nil {
		return nil, err
	}
	return s, nil
}

func newSession(deps Dependencies) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Session{
		ID:        core.NewSessionID(),
		Stage:     StageUninitialized,
		StartedAt: time.Now(),
		logger:    logger.With("Bootstrap"),
		metrics:   deps.Metrics,
	}
}

func (s *Session) run(ctx context.Context, table *tabular.Table, train model.TrainConfig, charts report.ChartRenderer) error {
	s.Table = table
	s.advance(StageDataLoaded)
	s.logger.Info("loaded %d rows x %d columns (fingerprint %s)",
		table.Rows(), len(table.Columns()), table.Fingerprint.Short())
	if s.metrics != nil {
		s.metrics.SetDatasetRows(table.Rows())
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	labels, err := labeling.Derive(table.Frame)
	if err != nil {
		if errors.GetCode(err) != errors.CodeLabelUnavailable {
			return errors.Wrap(err, "failed to derive labels")
		}
		s.Halt = &Halt{Message: errors.UserMessage(err), Err: err}
		s.advance(StageHalted)
		s.logger.Error("halted: %v", err)
		return nil
	}
	s.Labels = labels
	s.advance(StageLabelDerived)
	notAtRisk, atRisk := labels.Counts()
	s.logger.Info("labels from %s rule: %d at risk, %d not at risk (dropped %v)",
		labels.Rule, atRisk, notAtRisk, labels.Dropped)

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	trained, err := model.Train(labels.Features, labels.Ints(), train)
	if err != nil {
		s.logger.Error("model fit failed: %v", err)
		return errors.ModelError("failed to train risk model", err)
	}
	s.Model = trained
	s.advance(StageModelTrained)
	s.logger.Info("trained %d stages in %s, held-out accuracy %.4f (split %s)",
		trained.Pipeline.Classifier.Stages(), time.Since(start).Round(time.Millisecond),
		trained.Accuracy, trained.Split.Fingerprint().Short())
	if s.metrics != nil {
		s.metrics.SetAccuracy(trained.Accuracy)
	}

	s.Renderer = report.NewRenderer(report.Input{
		Source:   table.Frame,
		Features: labels.Features,
		Labels:   labels.Labels,
		Accuracy: trained.Accuracy,
		Model:    trained.Pipeline,
	}, charts)
	s.advance(StageReady)
	return nil
}

func (s *Session) advance(to Stage) {
	s.logger.Debug("stage %s -> %s", s.Stage, to)
	s.Stage = to
	if s.metrics != nil {
		s.metrics.SetStage(int(to))
	}
}

// Ready reports whether the session can render reports
func (s *Session) Ready() bool {
	return s.Stage == StageReady
}

// Halted reports whether bootstrap stopped on a label error
func (s *Session) Halted() bool {
	return s.Stage == StageHalted
}

// Bounds is the selectable row range
func (s *Session) Bounds() student.Bounds {
	if s.Table == nil {
		return student.NewBounds(0)
	}
	return student.NewBounds(s.Table.Rows())
}

// Render produces the report for row, clamped into Bounds
func (s *Session) Render(ctx context.Context, row int) (*report.Report, error) {
	if !s.Ready() {
		return nil, errors.Wrapf(core.ErrSessionNotReady, "session is %s", s.Stage)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	rep, err := s.Renderer.Render(s.Bounds().Select(row))
	if s.metrics != nil {
		s.metrics.ObserveRender(time.Since(start), err)
		if err == nil {
			s.metrics.ObservePrediction(rep.Prediction.String())
		}
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}
