package api

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/colindex/service"
)

func Build(s service.Servicer, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1").
		WithInterceptors(
			injectServicer(s),
		)

	v1.Resource("/records").
		WithActions(
			box.Post(upsertRecord),
		)

	v1.Resource("/records/{key}").
		WithActions(
			box.Get(getRecord),
		)

	v1.Resource("/indexes/{column}").
		WithActions(
			box.Get(getIndex),
			box.ActionPost(export),
		)

	b.Resource("/version").
		WithActions(
			box.Get(func() string {
				return version
			}).WithName("version"),
		)

	return b
}

type servicerKey struct{}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(SetServicer(ctx, s))
		}
	}
}

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, servicerKey{}, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(servicerKey{}).(service.Servicer)
}
