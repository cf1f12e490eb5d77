package service

import (
	"errors"
	"fmt"
	"math"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/ws"
)

var (
	ErrShiftAlreadyOpen = errors.New("already clocked in")
	ErrNoOpenShift      = errors.New("not clocked in")
)

type ShiftService interface {
	ClockIn(actor Actor) (*model.Shift, error)
	ClockOut(actor Actor) (*model.Shift, error)
	Current(actor Actor) (*model.Shift, error)
	List(actor Actor, status model.ShiftStatus) ([]model.Shift, error)
	OvertimeAlerts(actor Actor) ([]model.ShiftAlert, error)
}

type shiftService struct {
	shiftRepo    repository.ShiftRepository
	settingsRepo repository.SettingsRepository
	policy       *authz.Policy
	hub          ws.Publisher
	clock        clock.Clock
}

func NewShiftService(shiftRepo repository.ShiftRepository, settingsRepo repository.SettingsRepository,
	policy *authz.Policy, hub ws.Publisher, clk clock.Clock) ShiftService {
	return &shiftService{
		shiftRepo:    shiftRepo,
		settingsRepo: settingsRepo,
		policy:       policy,
		hub:          hub,
		clock:        clk,
	}
}

func (s *shiftService) ClockIn(actor Actor) (*model.Shift, error) {
	shift := &model.Shift{
		UserID:    actor.ID,
		UserName:  actor.Name,
		StartTime: s.clock.Now(),
		Status:    model.ShiftOngoing,
	}
	shift.CreatedBy = actor.ID.String()
	if err := s.shiftRepo.ClockIn(shift); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrShiftAlreadyOpen
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	s.notify("clock_in", shift, actor)
	return shift, nil
}

// WorkedMinutes is the paid length of a session. The auto break is only
// taken off sessions longer than the break itself.
func WorkedMinutes(shift *model.Shift, es *model.EmployeeSettings) int {
	minutes := int(shift.Elapsed(shift.StartTime).Minutes())
	if es.AutoBreakDeduction && es.AutoBreakMinutes > 0 && minutes > es.AutoBreakMinutes {
		minutes -= es.AutoBreakMinutes
	}
	return minutes
}

func (s *shiftService) ClockOut(actor Actor) (*model.Shift, error) {
	shift, err := s.shiftRepo.FindOngoing(actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenShift
		}
		return nil, err
	}
	es, err := s.settingsRepo.EmployeeSettings()
	if err != nil {
		return nil, err
	}

	end := s.clock.Now()
	shift.EndTime = &end
	shift.Duration = WorkedMinutes(shift, es)
	shift.Status = model.ShiftCompleted
	shift.UpdatedBy = actor.ID.String()
	if err := s.shiftRepo.Update(shift); err != nil {
		return nil, err
	}
	s.notify("clock_out", shift, actor)
	return shift, nil
}

func (s *shiftService) Current(actor Actor) (*model.Shift, error) {
	shift, err := s.shiftRepo.FindOngoing(actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoOpenShift
	}
	return shift, err
}

// List returns every shift for supervisors and only the actor's own otherwise.
func (s *shiftService) List(actor Actor, status model.ShiftStatus) ([]model.Shift, error) {
	shifts, err := s.shiftRepo.FindAll(status)
	if err != nil {
		return nil, err
	}
	if s.policy.Can(actor.Role, authz.ShiftViewAll) {
		return shifts, nil
	}
	own := []model.Shift{}
	for _, sh := range shifts {
		if sh.UserID == actor.ID {
			own = append(own, sh)
		}
	}
	return own, nil
}

func (s *shiftService) OvertimeAlerts(actor Actor) ([]model.ShiftAlert, error) {
	if err := s.policy.Require(actor.Role, authz.ShiftViewAll); err != nil {
		return nil, err
	}
	es, err := s.settingsRepo.EmployeeSettings()
	if err != nil {
		return nil, err
	}
	ongoing, err := s.shiftRepo.FindAll(model.ShiftOngoing)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	alerts := []model.ShiftAlert{}
	for _, sh := range ongoing {
		hours := sh.Elapsed(now).Hours()
		if hours <= float64(es.MaxShiftHours) {
			continue
		}
		alerts = append(alerts, model.ShiftAlert{
			ShiftID:      sh.ID,
			UserID:       sh.UserID,
			UserName:     sh.UserName,
			StartTime:    sh.StartTime,
			ElapsedHours: math.Round(hours*10) / 10,
			LimitHours:   es.MaxShiftHours,
		})
	}
	return alerts, nil
}

func (s *shiftService) notify(action string, shift *model.Shift, actor Actor) {
	s.hub.Publish(ws.Event{
		Type:    ws.TypeShiftUpdate,
		Action:  action,
		Data:    map[string]interface{}{"shift_id": shift.ID, "user_id": shift.UserID, "status": shift.Status, "duration": shift.Duration},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s %s", actor.Name, map[string]string{"clock_in": "clocked in", "clock_out": "clocked out"}[action]),
	})
}
