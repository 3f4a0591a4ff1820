package approval

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// Executor materializa una acción aprobada. Validate corre al encolar (rechaza
// payloads malformados antes de que lleguen al aprobador); Execute corre una
// sola vez, tras ganar la decisión condicional.
type Executor interface {
	Validate(payload json.RawMessage) error
	Execute(ctx context.Context, payload json.RawMessage, approvedBy string) error
}

// UseCase compuerta de aprobación: las acciones sensibles (ajustes, bajas de
// lote) no tocan el ledger hasta que una segunda persona las apruebe. La
// garantía de ejecutar-una-vez viene del UPDATE condicional en el repositorio:
// solo el decisor que gana la transición PENDING -> decidido ejecuta.
type UseCase struct {
	approvalRepo      repository.ApprovalRepository
	executors         map[string]Executor
	allowSelfApproval bool
	log               zerolog.Logger
}

// NewUseCase construye la compuerta con su registro de ejecutores.
func NewUseCase(approvalRepo repository.ApprovalRepository, executors map[string]Executor, allowSelfApproval bool, log zerolog.Logger) *UseCase {
	return &UseCase{
		approvalRepo:      approvalRepo,
		executors:         executors,
		allowSelfApproval: allowSelfApproval,
		log:               log,
	}
}

// Submit encola una acción propuesta en PENDING. El payload se valida contra el
// ejecutor registrado para el tipo; un tipo sin ejecutor se rechaza.
func (uc *UseCase) Submit(ctx context.Context, actionType string, payload json.RawMessage, requestedBy string) (*entity.PendingApproval, error) {
	exec, ok := uc.executors[actionType]
	if !ok {
		return nil, fmt.Errorf("tipo de acción %q sin ejecutor registrado: %w", actionType, domain.ErrInvalidInput)
	}
	if err := exec.Validate(payload); err != nil {
		return nil, err
	}
	approval := &entity.PendingApproval{
		ID:          uuid.New().String(),
		ActionType:  actionType,
		Payload:     payload,
		RequestedBy: requestedBy,
		Status:      entity.ApprovalStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := uc.approvalRepo.Create(ctx, approval); err != nil {
		return nil, err
	}
	return approval, nil
}

// Decide aprueba o rechaza una acción pendiente. La auto-aprobación se rechaza
// salvo configuración explícita (negocios de un solo operador). Si dos
// decisores concurren, solo uno gana; el otro recibe ErrInvalidState.
func (uc *UseCase) Decide(ctx context.Context, id, approver string, approve bool, notes string) (*entity.PendingApproval, error) {
	approval, err := uc.approvalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if approval == nil {
		return nil, fmt.Errorf("aprobación %s: %w", id, domain.ErrNotFound)
	}
	if approval.Status != entity.ApprovalStatusPending {
		return nil, fmt.Errorf("aprobación en estado %s: %w", approval.Status, domain.ErrInvalidState)
	}
	if approver == approval.RequestedBy && !uc.allowSelfApproval {
		return nil, fmt.Errorf("%s solicitó la acción: %w", approver, domain.ErrSelfApproval)
	}

	toStatus := entity.ApprovalStatusRejected
	if approve {
		toStatus = entity.ApprovalStatusApproved
	}
	now := time.Now()
	won, err := uc.approvalRepo.Decide(ctx, id, toStatus, approver, notes, now)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("aprobación %s ya decidida: %w", id, domain.ErrInvalidState)
	}

	approval.Status = toStatus
	approval.Approver = &approver
	approval.Notes = notes
	approval.DecidedAt = &now

	if !approve {
		return approval, nil
	}

	exec := uc.executors[approval.ActionType]
	if err := exec.Execute(ctx, approval.Payload, approver); err != nil {
		// La decisión ya quedó registrada; la acción no se reintenta sola.
		uc.log.Error().Err(err).
			Str("approval_id", id).
			Str("action_type", approval.ActionType).
			Msg("acción aprobada falló al ejecutarse")
		if serr := uc.approvalRepo.SetStatus(ctx, id, entity.ApprovalStatusFailed, err.Error()); serr != nil {
			uc.log.Error().Err(serr).Str("approval_id", id).Msg("no se pudo marcar la aprobación como FAILED")
		}
		approval.Status = entity.ApprovalStatusFailed
		return approval, fmt.Errorf("ejecutando acción aprobada: %w", err)
	}
	return approval, nil
}

// Get devuelve una aprobación por id.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.PendingApproval, error) {
	approval, err := uc.approvalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if approval == nil {
		return nil, fmt.Errorf("aprobación %s: %w", id, domain.ErrNotFound)
	}
	return approval, nil
}

// ListByStatus lista aprobaciones por estado (la bandeja del aprobador).
func (uc *UseCase) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.PendingApproval, error) {
	return uc.approvalRepo.ListByStatus(ctx, status, limit, offset)
}
