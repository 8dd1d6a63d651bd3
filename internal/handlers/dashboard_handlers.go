package handlers

import (
	"errors"
	"net/http"

	"github.com/01moynul/mtd-portal/internal/middleware"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/01moynul/mtd-portal/internal/store"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// DashboardHome is the handler for GET /dashboard. It sends the caller to their role's page.
func (h *Handlers) DashboardHome(c *gin.Context) {
	c.Redirect(http.StatusFound, middleware.DashboardPath(caller(c).Role))
}

//
// --- Mentor Dashboard ---
//

type MentorDashboard struct {
	Mentees          []*models.MentorMenteeRelationship `json:"mentees"`
	UpcomingSessions []*models.Session                  `json:"upcomingSessions"`
}

// GetMentorDashboard returns the data for GET /dashboard/mentor
func (h *Handlers) GetMentorDashboard(c *gin.Context) {
	userID := caller(c).UserID
	var dash MentorDashboard

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		dash.Mentees, err = h.Store.Relationships.MenteesOf(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		dash.UpcomingSessions, err = h.Store.Sessions.Upcoming(ctx, userID, true)
		return err
	})
	if err := g.Wait(); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

type MenteeSummary struct {
	Relationship *models.MentorMenteeRelationship `json:"relationship"`
	Mentee       *models.User                     `json:"mentee,omitempty"`
}

// GetMentorMentees returns the data for GET /dashboard/mentor/mentees
// Each active pairing is joined with the mentee's account; a deleted account is left out.
func (h *Handlers) GetMentorMentees(c *gin.Context) {
	ctx := c.Request.Context()

	rels, err := h.Store.Relationships.MenteesOf(ctx, caller(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	mentees := make([]MenteeSummary, 0, len(rels))
	for _, rel := range rels {
		summary := MenteeSummary{Relationship: rel}
		user, err := h.Store.Users.GetByID(ctx, rel.MenteeID)
		switch {
		case err == nil:
			summary.Mentee = user
		case !errors.Is(err, models.ErrNotFound):
			h.respondError(c, err)
			return
		}
		mentees = append(mentees, summary)
	}
	c.JSON(http.StatusOK, gin.H{"mentees": mentees})
}

//
// --- Mentee Dashboard ---
//

type MenteeDashboard struct {
	UpcomingSessions []*models.Session                  `json:"upcomingSessions"`
	Mentors          []*models.MentorMenteeRelationship `json:"mentors"`
	Badges           []*models.UserBadge                `json:"badges"`
	Progress         models.ProgressStats               `json:"progress"`
}

// GetMenteeDashboard returns the data for GET /dashboard/mentee
func (h *Handlers) GetMenteeDashboard(c *gin.Context) {
	userID := caller(c).UserID
	var dash MenteeDashboard

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		dash.UpcomingSessions, err = h.Store.Sessions.Upcoming(ctx, userID, false)
		return err
	})
	g.Go(func() (err error) {
		dash.Mentors, err = h.Store.Relationships.MentorsOf(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		dash.Badges, err = h.Store.Badges.ForUser(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		dash.Progress, err = h.Store.Progress.Stats(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

//
// --- Donor Dashboard ---
//

type DonorDashboard struct {
	Subscription *models.Subscription `json:"subscription"`
	Totals       models.PaymentTotals `json:"totals"`
}

// GetDonorDashboard returns the data for GET /dashboard/donor
func (h *Handlers) GetDonorDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID := caller(c).UserID
	var dash DonorDashboard

	// 1. Active subscription (none is fine)
	sub, err := h.Store.Subscriptions.ActiveForUser(ctx, userID)
	switch {
	case err == nil:
		dash.Subscription = sub
	case !errors.Is(err, models.ErrNotFound):
		h.respondError(c, err)
		return
	}

	// 2. Giving totals
	payments, err := h.Store.Payments.ListForUser(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	dash.Totals = models.SumPayments(payments)

	c.JSON(http.StatusOK, dash)
}

// GetDonorHistory returns the data for GET /dashboard/donor/history
func (h *Handlers) GetDonorHistory(c *gin.Context) {
	payments, err := h.Store.Payments.ListForUser(c.Request.Context(), caller(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

//
// --- Admin Dashboard ---
//

// GetAdminDashboard returns the data for GET /dashboard/admin: the same snapshot the
// realtime stream pushes.
func (h *Handlers) GetAdminDashboard(c *gin.Context) {
	snap, err := h.stream().Snapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetAdminUsers returns the data for GET /dashboard/admin/users
func (h *Handlers) GetAdminUsers(c *gin.Context) {
	users, err := h.Store.Users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type AdminAnalytics struct {
	Users          models.UserStats         `json:"users"`
	Subscriptions  models.SubscriptionStats `json:"subscriptions"`
	UpcomingEvents []*models.Event          `json:"upcomingEvents"`
	TopResources   []*models.Resource       `json:"topResources"`
}

// GetAdminAnalytics returns the data for GET /dashboard/admin/analytics
func (h *Handlers) GetAdminAnalytics(c *gin.Context) {
	var out AdminAnalytics

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		out.Users, err = h.Store.Users.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Subscriptions, err = h.Store.Subscriptions.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.UpcomingEvents, err = h.Store.Events.Upcoming(ctx, store.DefaultUpcomingEvents)
		return err
	})
	g.Go(func() (err error) {
		out.TopResources, err = h.Store.Resources.Featured(ctx, store.DefaultFeaturedResources)
		return err
	})
	if err := g.Wait(); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
