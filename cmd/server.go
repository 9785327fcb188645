package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cpu-sched-sim/sim"
	"github.com/inference-sim/cpu-sched-sim/sim/trace"
	"github.com/inference-sim/cpu-sched-sim/sim/workload"
)

// runRequest is the body of every simulation endpoint.
type runRequest struct {
	Quantum   *int                   `json:"quantum"`
	MaxTicks  int64                  `json:"max_ticks"`
	Trace     string                 `json:"trace"`
	Metric    string                 `json:"metric"` // compare only
	Processes []workload.ProcessSpec `json:"processes"`
}

type runResponse struct {
	RunID  string               `json:"run_id"`
	Result *sim.AlgorithmResult `json:"result"`
}

type stepResponse struct {
	RunID     string               `json:"run_id"`
	Events    []sim.TickEvent      `json:"events"`
	Truncated bool                 `json:"truncated"`
	Result    *sim.AlgorithmResult `json:"result,omitempty"` // nil when truncated
}

type compareResponse struct {
	RunID      string                 `json:"run_id"`
	Results    []*sim.AlgorithmResult `json:"results"`
	Metric     sim.CompareMetric      `json:"metric"`
	BestPolicy sim.Policy             `json:"best_policy"`
}

type policyInfo struct {
	Name        sim.Policy `json:"name"`
	DisplayName string     `json:"display_name"`
	Preemptive  bool       `json:"preemptive"`
	UsesQuantum bool       `json:"uses_quantum"`
}

// SchedulerHandler serves the simulation API.
type SchedulerHandler struct {
	config *ServerConfig
}

// NewSchedulerHandler creates a handler bound to cfg.
func NewSchedulerHandler(cfg *ServerConfig) *SchedulerHandler {
	return &SchedulerHandler{config: cfg}
}

// NewServer builds the fiber app with every route registered.
func NewServer(cfg *ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cpu-sched-sim",
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
	})
	app.Use(requestLogger)

	h := NewSchedulerHandler(cfg)
	app.Get("/healthz", h.Health)

	v1 := app.Group("/api/v1")
	{
		v1.Get("/policies", h.Policies)
		v1.Post("/run/:policy", h.Run)
		v1.Post("/step/:policy", h.Step)
		v1.Post("/compare", h.Compare)
	}
	return app
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	logrus.Debugf("%s %s -> %d (%s)", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
	return err
}

func (h *SchedulerHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *SchedulerHandler) Policies(c *fiber.Ctx) error {
	policies := sim.AllPolicies()
	out := make([]policyInfo, len(policies))
	for i, p := range policies {
		out[i] = policyInfo{Name: p, DisplayName: p.DisplayName(), Preemptive: p.Preemptive(), UsesQuantum: p.UsesQuantum()}
	}
	return c.JSON(out)
}

func (h *SchedulerHandler) Run(c *fiber.Ctx) error {
	runID := uuid.New().String()
	in, err := h.parse(c, true)
	if err != nil {
		return respondError(c, runID, err)
	}
	res, err := sim.Run(in.policy, in.procs, in.opts)
	if err != nil {
		return respondError(c, runID, err)
	}
	logrus.Infof("run %s: %s over %d processes finished at tick %d", runID, in.policy, len(in.procs), res.TotalTime)
	return c.JSON(runResponse{RunID: runID, Result: res})
}

func (h *SchedulerHandler) Step(c *fiber.Ctx) error {
	runID := uuid.New().String()
	in, err := h.parse(c, true)
	if err != nil {
		return respondError(c, runID, err)
	}
	stepper, err := sim.NewStepper(in.policy, in.procs, in.opts)
	if err != nil {
		return respondError(c, runID, err)
	}
	resp := stepResponse{RunID: runID}
	for len(resp.Events) < h.config.MaxSteps {
		ev, done, err := stepper.Next()
		if err != nil {
			return respondError(c, runID, err)
		}
		resp.Events = append(resp.Events, ev)
		if done {
			break
		}
	}
	resp.Truncated = !stepper.Done()
	resp.Result = stepper.Result()
	return c.JSON(resp)
}

func (h *SchedulerHandler) Compare(c *fiber.Ctx) error {
	runID := uuid.New().String()
	in, err := h.parse(c, false)
	if err != nil {
		return respondError(c, runID, err)
	}
	metric := sim.MetricWaiting
	if in.metric != "" {
		if metric, err = parseCompareMetric(in.metric); err != nil {
			return respondError(c, runID, fmt.Errorf("%w: %v", sim.ErrInvalidInput, err))
		}
	}
	results, err := sim.CompareAll(in.procs, in.opts)
	if err != nil {
		return respondError(c, runID, err)
	}
	resp := compareResponse{RunID: runID, Results: results, Metric: metric}
	if best := sim.BestBy(results, metric); best != nil {
		resp.BestPolicy = best.Policy
	}
	return c.JSON(resp)
}

// parsedRun is a decoded simulation request.
type parsedRun struct {
	policy sim.Policy
	procs  []sim.Process
	opts   sim.Options
	metric string
}

// parse decodes the request body and, when withPolicy is set, the :policy param.
func (h *SchedulerHandler) parse(c *fiber.Ctx, withPolicy bool) (parsedRun, error) {
	var req runRequest
	if err := c.BodyParser(&req); err != nil {
		return parsedRun{}, fmt.Errorf("%w: malformed request body: %v", sim.ErrInvalidInput, err)
	}
	if len(req.Processes) > h.config.MaxProcesses {
		return parsedRun{}, fmt.Errorf("%w: %d processes exceeds the limit of %d",
			sim.ErrInvalidInput, len(req.Processes), h.config.MaxProcesses)
	}

	in := parsedRun{
		opts:   sim.Options{Quantum: h.config.DefaultQuantum, MaxTicks: req.MaxTicks, TraceLevel: trace.TraceLevel(req.Trace)},
		metric: req.Metric,
	}
	if withPolicy {
		p, err := sim.ParsePolicy(c.Params("policy"))
		if err != nil {
			return parsedRun{}, err
		}
		in.policy = p
	}
	if req.Quantum != nil {
		in.opts.Quantum = *req.Quantum
	}
	spec := workload.WorkloadSpec{Processes: req.Processes}
	in.procs = spec.ToProcesses()
	if err := h.boundTicks(&in, req.MaxTicks); err != nil {
		return parsedRun{}, err
	}
	return in, nil
}

// boundTicks keeps a request within the server's tick budget. Workloads that
// cannot finish inside it are rejected; otherwise the derived ceiling is
// clamped to the budget.
func (h *SchedulerHandler) boundTicks(in *parsedRun, requested int64) error {
	limit := h.config.MaxTicks
	if requested > limit {
		return fmt.Errorf("%w: max_ticks %d exceeds the server limit of %d", sim.ErrInvalidInput, requested, limit)
	}
	if err := sim.ValidateProcesses(in.procs); err != nil {
		return err
	}
	if bound := sim.CompletionBound(in.procs); bound > limit {
		return fmt.Errorf("%w: workload may need %d ticks, exceeding the server limit of %d",
			sim.ErrInvalidInput, bound, limit)
	}
	if in.opts.MaxTicks == 0 {
		in.opts.MaxTicks = min(sim.DefaultMaxTicks(in.procs), limit)
	}
	return nil
}

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sim.ErrUnknownPolicy):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, sim.ErrInvalidInput):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, runID string, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		logrus.Errorf("run %s failed: %v", runID, err)
	} else {
		logrus.Debugf("run %s rejected: %v", runID, err)
	}
	return c.Status(status).JSON(fiber.Map{"run_id": runID, "error": err.Error()})
}
