package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/smartystreets/goconvey/convey"

	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/services"
)

func TestChatService(t *testing.T) {
	convey.Convey("Given a chat service", t, func() {
		ctx := context.Background()
		messages := newFakeMessageRepo()
		users := newFakeUserRepo()
		svc := services.NewChatService(messages, users)

		sender := &models.User{FirstName: "Asha", Email: "asha@example.com", PasswordHash: "secret", Role: models.RoleUser}
		convey.So(users.Create(ctx, sender), convey.ShouldBeNil)

		convey.Convey("When a message is posted", func() {
			msg, err := svc.PostMessage(ctx, 1, sender.ID, "  hello room  ")

			convey.Convey("Then it is stored trimmed and decorated with the sender", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(msg.ID, convey.ShouldBeGreaterThan, 0)
				convey.So(msg.Body, convey.ShouldEqual, "hello room")
				convey.So(msg.Sender, convey.ShouldNotBeNil)
				convey.So(msg.Sender.FirstName, convey.ShouldEqual, "Asha")
				convey.So(msg.Sender.PasswordHash, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the body is blank", func() {
			_, err := svc.PostMessage(ctx, 1, sender.ID, "   ")
			convey.So(err, convey.ShouldEqual, services.ErrMessageBodyEmpty)
		})

		convey.Convey("When the body exceeds the length cap", func() {
			msg, err := svc.PostMessage(ctx, 1, sender.ID, strings.Repeat("a", 600))
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(msg.Body), convey.ShouldEqual, 500)
		})

		convey.Convey("When the cap would land inside a multi-byte character", func() {
			msg, err := svc.PostMessage(ctx, 1, sender.ID, strings.Repeat("a", 499)+"é")

			convey.Convey("Then the cut stays on a rune boundary", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(utf8.ValidString(msg.Body), convey.ShouldBeTrue)
				convey.So(len(msg.Body), convey.ShouldEqual, 499)
			})
		})

		convey.Convey("When history is requested", func() {
			for i := 0; i < 60; i++ {
				_, err := svc.PostMessage(ctx, 1, sender.ID, fmt.Sprintf("message %d", i))
				convey.So(err, convey.ShouldBeNil)
			}
			_, err := svc.PostMessage(ctx, 2, sender.ID, "other room")
			convey.So(err, convey.ShouldBeNil)

			history, err := svc.GetHistory(ctx, 1)

			convey.Convey("Then only the newest messages for that event come back in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(history), convey.ShouldEqual, 50)
				convey.So(history[0].Body, convey.ShouldEqual, "message 10")
				convey.So(history[len(history)-1].Body, convey.ShouldEqual, "message 59")
			})
		})
	})
}
