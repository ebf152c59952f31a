package services_test

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/services"
)

func TestAuthService(t *testing.T) {
	convey.Convey("Given an auth service", t, func() {
		ctx := context.Background()
		users := newFakeUserRepo()
		svc := services.NewAuthService(users)

		input := services.RegisterInput{
			FirstName: "Asha",
			LastName:  "Verma",
			Email:     " Asha@Example.COM ",
			Password:  "hunter22pass",
		}

		convey.Convey("When a user registers", func() {
			user, err := svc.Register(ctx, input)

			convey.Convey("Then the account is stored with a normalized email and no exposed hash", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(user.ID, convey.ShouldBeGreaterThan, 0)
				convey.So(user.Email, convey.ShouldEqual, "asha@example.com")
				convey.So(user.Role, convey.ShouldEqual, models.RoleUser)
				convey.So(user.PasswordHash, convey.ShouldBeEmpty)
			})

			convey.Convey("And the stored hash is not the raw password", func() {
				convey.So(err, convey.ShouldBeNil)
				stored, getErr := users.GetByEmail(ctx, "asha@example.com")
				convey.So(getErr, convey.ShouldBeNil)
				convey.So(stored.PasswordHash, convey.ShouldNotBeEmpty)
				convey.So(stored.PasswordHash, convey.ShouldNotEqual, input.Password)
			})

			convey.Convey("And registering the same email again is rejected", func() {
				convey.So(err, convey.ShouldBeNil)
				_, err := svc.Register(ctx, input)
				convey.So(err, convey.ShouldEqual, services.ErrAuthEmailTaken)
			})

			convey.Convey("And logging in with the right password succeeds", func() {
				convey.So(err, convey.ShouldBeNil)
				logged, err := svc.Login(ctx, services.LoginInput{Email: "ASHA@example.com", Password: input.Password})
				convey.So(err, convey.ShouldBeNil)
				convey.So(logged.ID, convey.ShouldEqual, user.ID)
				convey.So(logged.PasswordHash, convey.ShouldBeEmpty)
			})

			convey.Convey("And logging in with the wrong password fails", func() {
				convey.So(err, convey.ShouldBeNil)
				_, err := svc.Login(ctx, services.LoginInput{Email: input.Email, Password: "wrong-password"})
				convey.So(err, convey.ShouldEqual, services.ErrAuthInvalidCredentials)
			})
		})

		convey.Convey("When the password is too short", func() {
			short := input
			short.Password = "short"
			_, err := svc.Register(ctx, short)
			convey.So(err, convey.ShouldEqual, services.ErrPasswordTooShort)
		})

		convey.Convey("When logging in with an unknown email", func() {
			_, err := svc.Login(ctx, services.LoginInput{Email: "nobody@example.com", Password: "whatever123"})
			convey.So(err, convey.ShouldEqual, services.ErrAuthInvalidCredentials)
		})
	})
}
