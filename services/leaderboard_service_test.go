package services_test

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/services"
)

func TestGetLeaderboard(t *testing.T) {
	convey.Convey("Given an event with declared results", t, func() {
		ctx := context.Background()
		members := newFakeMembershipRepo()
		regs := newFakeRegistrationRepo()
		teams := newFakeTeamRepo(members, regs)
		events := newFakeEventRepo()
		results := newFakeResultRepo()
		svc := services.NewLeaderboardService(results, events, teams, members)

		event := events.put(&models.Event{Name: "Startup Sprint", Status: models.EventStatusCompleted})

		teamA := &models.Team{Name: "Moonshot", Slug: "AAAA22", LeaderID: 1}
		teamB := &models.Team{Name: "Fault Lines", Slug: "BBBB33", LeaderID: 2}
		convey.So(teams.CreateWithLeader(ctx, teamA), convey.ShouldBeNil)
		convey.So(teams.CreateWithLeader(ctx, teamB), convey.ShouldBeNil)
		members.put(teamB.ID, 3, models.MemberRoleMember, models.MemberStatusAccepted)

		// Declared out of order on purpose.
		convey.So(results.Upsert(ctx, &models.EventResult{EventID: event.ID, TeamID: teamB.ID, Rank: 2, Marks: 80}), convey.ShouldBeNil)
		convey.So(results.Upsert(ctx, &models.EventResult{EventID: event.ID, TeamID: teamA.ID, Rank: 1, Marks: 95}), convey.ShouldBeNil)

		convey.Convey("When the leaderboard is fetched", func() {
			board, err := svc.GetLeaderboard(ctx, event.ID, false)

			convey.Convey("Then results come back ordered by rank with teams attached", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(board.Event.ID, convey.ShouldEqual, event.ID)
				convey.So(len(board.Results), convey.ShouldEqual, 2)
				convey.So(board.Results[0].Rank, convey.ShouldEqual, 1)
				convey.So(board.Results[0].Team.Name, convey.ShouldEqual, "Moonshot")
				convey.So(board.Results[1].Rank, convey.ShouldEqual, 2)
				convey.So(board.Results[1].Team.Name, convey.ShouldEqual, "Fault Lines")
				convey.So(board.Meta.RanksPresent, convey.ShouldResemble, []int{1, 2})
			})

			convey.Convey("Then member counts are left out", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(board.Results[0].MemberCount, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the leaderboard is fetched with member counts", func() {
			board, err := svc.GetLeaderboard(ctx, event.ID, true)

			convey.Convey("Then each result carries its accepted member count", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(*board.Results[0].MemberCount, convey.ShouldEqual, 1)
				convey.So(*board.Results[1].MemberCount, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When a ranked team has since been deleted", func() {
			convey.So(teams.DeleteCascade(ctx, teamA.ID), convey.ShouldBeNil)
			board, err := svc.GetLeaderboard(ctx, event.ID, true)

			convey.Convey("Then its result survives with a nil team and zero members", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(board.Results), convey.ShouldEqual, 2)
				convey.So(board.Results[0].Team, convey.ShouldBeNil)
				convey.So(*board.Results[0].MemberCount, convey.ShouldEqual, 0)
				convey.So(board.Results[1].Team.Name, convey.ShouldEqual, "Fault Lines")
			})
		})

		convey.Convey("When the event has no results", func() {
			empty := events.put(&models.Event{Name: "Quiet", Status: models.EventStatusUpcoming})
			board, err := svc.GetLeaderboard(ctx, empty.ID, false)

			convey.Convey("Then the board is empty rather than an error", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(board.Results), convey.ShouldEqual, 0)
				convey.So(len(board.Meta.RanksPresent), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the event does not exist", func() {
			_, err := svc.GetLeaderboard(ctx, 404, false)
			convey.So(err, convey.ShouldEqual, services.ErrEventNotFound)
		})
	})
}
