package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/services"
)

type adminFixture struct {
	users   *fakeUserRepo
	teams   *fakeTeamRepo
	members *fakeMembershipRepo
	events  *fakeEventRepo
	regs    *fakeRegistrationRepo
	results *fakeResultRepo
	svc     services.AdminService
}

func newAdminFixture() *adminFixture {
	users := newFakeUserRepo()
	members := newFakeMembershipRepo()
	regs := newFakeRegistrationRepo()
	teams := newFakeTeamRepo(members, regs)
	events := newFakeEventRepo()
	results := newFakeResultRepo()
	return &adminFixture{
		users:   users,
		teams:   teams,
		members: members,
		events:  events,
		regs:    regs,
		results: results,
		svc:     services.NewAdminService(users, teams, events, regs, results),
	}
}

func TestCreateEvent(t *testing.T) {
	convey.Convey("Given an admin service", t, func() {
		ctx := context.Background()
		f := newAdminFixture()
		start := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

		convey.Convey("When an event is created without explicit size bounds", func() {
			event, err := f.svc.CreateEvent(ctx, services.CreateEventInput{
				Name:      "  Startup Sprint ",
				Category:  "pitching",
				StartDate: start,
				EndDate:   start.Add(8 * time.Hour),
			})

			convey.Convey("Then it gets the platform defaults and starts upcoming", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(event.ID, convey.ShouldBeGreaterThan, 0)
				convey.So(event.Name, convey.ShouldEqual, "Startup Sprint")
				convey.So(event.MinTeamSize, convey.ShouldEqual, models.DefaultMinTeamSize)
				convey.So(event.MaxTeamSize, convey.ShouldEqual, models.DefaultMaxTeamSize)
				convey.So(event.Status, convey.ShouldEqual, models.EventStatusUpcoming)
			})
		})

		convey.Convey("When the input is invalid", func() {
			_, blankName := f.svc.CreateEvent(ctx, services.CreateEventInput{
				Name:      "   ",
				StartDate: start,
				EndDate:   start.Add(time.Hour),
			})
			_, datesBackwards := f.svc.CreateEvent(ctx, services.CreateEventInput{
				Name:      "Backwards",
				StartDate: start,
				EndDate:   start.Add(-time.Hour),
			})
			_, sizesBackwards := f.svc.CreateEvent(ctx, services.CreateEventInput{
				Name:        "Inverted",
				MinTeamSize: 5,
				MaxTeamSize: 2,
				StartDate:   start,
				EndDate:     start.Add(time.Hour),
			})

			convey.Convey("Then every variant is rejected as validation failure", func() {
				convey.So(errors.Is(blankName, services.ErrValidationFailed), convey.ShouldBeTrue)
				convey.So(errors.Is(datesBackwards, services.ErrValidationFailed), convey.ShouldBeTrue)
				convey.So(errors.Is(sizesBackwards, services.ErrValidationFailed), convey.ShouldBeTrue)
			})
		})
	})
}

func TestDeclareResult(t *testing.T) {
	convey.Convey("Given an admin service", t, func() {
		ctx := context.Background()
		f := newAdminFixture()

		convey.Convey("When a result is declared", func() {
			result, err := f.svc.DeclareResult(ctx, services.DeclareResultInput{EventID: 1, TeamID: 2, Rank: 1, Marks: 95})

			convey.Convey("Then it is stored under (event, team)", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(result.Rank, convey.ShouldEqual, 1)
				listed, _ := f.results.ListByEvent(ctx, 1)
				convey.So(len(listed), convey.ShouldEqual, 1)
			})

			convey.Convey("And re-declaring the same pair amends rather than duplicates", func() {
				convey.So(err, convey.ShouldBeNil)
				_, err := f.svc.DeclareResult(ctx, services.DeclareResultInput{EventID: 1, TeamID: 2, Rank: 3, Marks: 70})
				convey.So(err, convey.ShouldBeNil)
				listed, _ := f.results.ListByEvent(ctx, 1)
				convey.So(len(listed), convey.ShouldEqual, 1)
				convey.So(listed[0].Rank, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When ids or rank are invalid", func() {
			_, noIDs := f.svc.DeclareResult(ctx, services.DeclareResultInput{Rank: 1})
			_, badRank := f.svc.DeclareResult(ctx, services.DeclareResultInput{EventID: 1, TeamID: 2, Rank: 0})
			convey.So(noIDs, convey.ShouldEqual, services.ErrMissingFields)
			convey.So(errors.Is(badRank, services.ErrValidationFailed), convey.ShouldBeTrue)
		})
	})
}

func TestDashboardAndListings(t *testing.T) {
	convey.Convey("Given stored users, teams, events and registrations", t, func() {
		ctx := context.Background()
		f := newAdminFixture()

		for _, email := range []string{"a@example.com", "b@example.com"} {
			convey.So(f.users.Create(ctx, &models.User{Email: email, PasswordHash: "hash", Role: models.RoleUser}), convey.ShouldBeNil)
		}
		team := &models.Team{Name: "Moonshot", Slug: "AAAA22", LeaderID: 1}
		convey.So(f.teams.CreateWithLeader(ctx, team), convey.ShouldBeNil)
		event := f.events.put(&models.Event{Name: "Startup Sprint", Status: models.EventStatusOngoing})
		convey.So(f.regs.Create(ctx, &models.EventRegistration{EventID: event.ID, TeamID: team.ID, UserID: 1}), convey.ShouldBeNil)

		convey.Convey("When dashboard stats are fetched", func() {
			stats, err := f.svc.GetDashboardStats(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(stats.TotalUsers, convey.ShouldEqual, 2)
			convey.So(stats.TotalTeams, convey.ShouldEqual, 1)
			convey.So(stats.TotalEvents, convey.ShouldEqual, 1)
			convey.So(stats.TotalRegistrations, convey.ShouldEqual, 1)
		})

		convey.Convey("When users are listed", func() {
			users, err := f.svc.ListUsers(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(users), convey.ShouldEqual, 2)
			for _, user := range users {
				convey.So(user.PasswordHash, convey.ShouldBeEmpty)
			}
		})

		convey.Convey("When registrations are listed for the event", func() {
			regs, err := f.svc.ListEventRegistrations(ctx, event.ID)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(regs), convey.ShouldEqual, 1)
			convey.So(regs[0].TeamID, convey.ShouldEqual, team.ID)
		})

		convey.Convey("When registrations are listed for a missing event", func() {
			_, err := f.svc.ListEventRegistrations(ctx, 404)
			convey.So(err, convey.ShouldEqual, services.ErrEventNotFound)
		})
	})
}
