package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gigfolio/backend/internal/models"
)

type acceptanceFixture struct {
	*contractFixture
	flow      *AcceptanceFlow
	proposals *mockProposalStore
}

func newAcceptanceFixture(t *testing.T) *acceptanceFixture {
	t.Helper()
	cf := newContractFixture(t)
	proposals := newMockProposalStore()
	return &acceptanceFixture{
		contractFixture: cf,
		proposals:       proposals,
		flow:            NewAcceptanceFlow(mockPool{}, proposals, cf.jobs, cf.manager, nil),
	}
}

func (f *acceptanceFixture) submit(jobID, freelancerID uuid.UUID, amount int64) *models.Proposal {
	p := &models.Proposal{
		ID: uuid.New(), JobID: jobID, FreelancerID: freelancerID,
		AmountCents: amount, DurationDays: 10,
		Status: models.ProposalStatusSubmitted,
	}
	f.proposals.proposals[p.ID] = p
	return p
}

func TestAcceptProposal(t *testing.T) {
	f := newAcceptanceFixture(t)
	job := f.jobs.add(f.client.ID, models.JobStatusOpen)
	winner := f.submit(job.ID, f.freelancer.ID, 8_000)
	other := f.submit(job.ID, f.users.add(models.UserRoleFreelancer).ID, 9_000)

	contract, err := f.flow.Accept(context.Background(), f.client.ID, winner.ID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}

	// Contract takes the proposal's terms, not the job budget.
	if contract.AmountCents != 8_000 || contract.DurationDays != 10 {
		t.Errorf("contract terms = %d / %d days, want 8000 / 10", contract.AmountCents, contract.DurationDays)
	}
	if contract.FreelancerID != f.freelancer.ID {
		t.Errorf("contract freelancer = %s, want %s", contract.FreelancerID, f.freelancer.ID)
	}
	if winner.Status != models.ProposalStatusAccepted {
		t.Errorf("winner status = %s, want accepted", winner.Status)
	}
	if other.Status != models.ProposalStatusRejected {
		t.Errorf("sibling status = %s, want rejected", other.Status)
	}
	if job.Status != models.JobStatusInProgress {
		t.Errorf("job status = %s, want in_progress", job.Status)
	}
}

func TestAcceptRequiresOwnership(t *testing.T) {
	f := newAcceptanceFixture(t)
	job := f.jobs.add(f.client.ID, models.JobStatusOpen)
	p := f.submit(job.ID, f.freelancer.ID, 8_000)

	stranger := f.users.add(models.UserRoleClient)
	_, err := f.flow.Accept(context.Background(), stranger.ID, p.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if p.Status != models.ProposalStatusSubmitted {
		t.Errorf("proposal mutated: %s", p.Status)
	}
}

func TestAcceptRejectsNonSubmitted(t *testing.T) {
	f := newAcceptanceFixture(t)
	job := f.jobs.add(f.client.ID, models.JobStatusOpen)
	p := f.submit(job.ID, f.freelancer.ID, 8_000)
	p.Status = models.ProposalStatusRejected

	_, err := f.flow.Accept(context.Background(), f.client.ID, p.ID)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestAcceptUnknownProposal(t *testing.T) {
	f := newAcceptanceFixture(t)
	_, err := f.flow.Accept(context.Background(), f.client.ID, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAcceptSecondProposalBlockedByContract(t *testing.T) {
	f := newAcceptanceFixture(t)
	job := f.jobs.add(f.client.ID, models.JobStatusOpen)
	first := f.submit(job.ID, f.freelancer.ID, 8_000)
	second := f.submit(job.ID, f.users.add(models.UserRoleFreelancer).ID, 7_000)

	if _, err := f.flow.Accept(context.Background(), f.client.ID, first.ID); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	// The sibling was auto-rejected; even forcing it back to submitted, the
	// active contract blocks a second acceptance.
	second.Status = models.ProposalStatusSubmitted
	_, err := f.flow.Accept(context.Background(), f.client.ID, second.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}
