package main

import (
	"net/http"

	"github.com/gigfolio/backend/internal/auth"
	"github.com/gigfolio/backend/internal/handlers"
	"github.com/gigfolio/backend/internal/middleware"
	"github.com/gigfolio/backend/internal/models"
)

// newRouter wires every route. Auth endpoints are public; everything else
// runs behind JWTAuth, with role gates where an operation is one-sided.
func newRouter(
	authSvc auth.Service,
	authHandler *auth.Handler,
	wallet *handlers.WalletHandler,
	job *handlers.JobHandler,
	proposal *handlers.ProposalHandler,
	contract *handlers.ContractHandler,
	review *handlers.ReviewHandler,
	stats *handlers.StatsHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.JWTAuth(authSvc)
	clientOnly := middleware.RequireRole(models.UserRoleClient)
	freelancerOnly := middleware.RequireRole(models.UserRoleFreelancer)

	handle := func(pattern string, h http.HandlerFunc, mw ...func(http.Handler) http.Handler) {
		var handler http.Handler = h
		for i := len(mw) - 1; i >= 0; i-- {
			handler = mw[i](handler)
		}
		mux.Handle(pattern, handler)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Auth
	mux.HandleFunc("POST /api/v1/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Wallet
	handle("GET /api/v1/wallet", wallet.GetWallet, authed)
	handle("PATCH /api/v1/wallet", wallet.Adjust, authed)
	handle("GET /api/v1/wallet/entries", wallet.GetStatement, authed)
	handle("POST /api/v1/wallet/deposit", wallet.Deposit, authed)
	handle("POST /api/v1/wallet/withdraw", wallet.Withdraw, authed)

	// Job posts
	handle("POST /api/v1/jobs", job.CreateJob, authed, clientOnly)
	handle("GET /api/v1/jobs", job.BrowseJobs, authed)
	handle("GET /api/v1/jobs/mine", job.ListMyJobs, authed, clientOnly)
	handle("GET /api/v1/jobs/{jobID}", job.GetJob, authed)
	handle("PATCH /api/v1/jobs/{jobID}", job.UpdateJob, authed, clientOnly)
	handle("DELETE /api/v1/jobs/{jobID}", job.DeleteJob, authed, clientOnly)

	// Proposals
	handle("POST /api/v1/jobs/{jobID}/proposals", proposal.SubmitProposal, authed, freelancerOnly)
	handle("GET /api/v1/jobs/{jobID}/proposals", proposal.ListForJob, authed, clientOnly)
	handle("GET /api/v1/proposals", proposal.ListMine, authed, freelancerOnly)
	handle("PATCH /api/v1/proposals/{proposalID}", proposal.UpdateProposal, authed, freelancerOnly)
	handle("DELETE /api/v1/proposals/{proposalID}", proposal.WithdrawProposal, authed, freelancerOnly)
	handle("POST /api/v1/proposals/{proposalID}/accept", proposal.AcceptProposal, authed, clientOnly)

	// Contracts
	handle("POST /api/v1/contracts", contract.CreateContract, authed, clientOnly)
	handle("GET /api/v1/contracts", contract.ListMyContracts, authed)
	handle("GET /api/v1/contracts/{contractID}", contract.GetContract, authed)
	handle("PATCH /api/v1/contracts/{contractID}", contract.UpdateContractStatus, authed, clientOnly)

	// Reviews
	handle("POST /api/v1/reviews", review.CreateReview, authed)
	handle("GET /api/v1/users/{userID}/reviews", review.ListReviews, authed)

	// Platform stats
	handle("GET /api/v1/stats", stats.Overview, authed)

	return mux
}
