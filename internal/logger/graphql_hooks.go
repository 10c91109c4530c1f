package logger

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"

	"socialposts/internal/apperr"
)

func AttachGraphQLHooks(srv *handler.Server) {
	srv.AroundOperations(func(ctx context.Context, next graphql.OperationHandler) graphql.ResponseHandler {
		operation := graphql.GetOperationContext(ctx)

		opType := "unknown"
		opName := ""
		if operation.Operation != nil {
			opType = string(operation.Operation.Operation)
			opName = operation.Operation.Name
		}
		varJSON, _ := json.Marshal(operation.Variables)

		Log.Info().
			Str("op_type", opType).
			Str("op_name", opName).
			RawJSON("variables", varJSON).
			Msg("graphql operation started")

		start := time.Now()
		resp := next(ctx)

		return func(ctx context.Context) *graphql.Response {
			Log.Info().
				Str("op_type", opType).
				Str("op_name", opName).
				Dur("duration", time.Since(start)).
				Msg("graphql operation finished")

			return resp(ctx)
		}
	})

	srv.AroundFields(func(ctx context.Context, next graphql.Resolver) (res any, err error) {
		fc := graphql.GetFieldContext(ctx)

		if strings.HasPrefix(fc.Field.Name, "__") ||
			strings.HasPrefix(fc.Object, "__") ||
			strings.HasPrefix(fc.Path().String(), "__") {
			return next(ctx)
		}

		if !fc.IsResolver || (fc.Object != "Query" && fc.Object != "Mutation") {
			return next(ctx)
		}

		start := time.Now()
		res, err = next(ctx)

		event := Log.Debug()
		if err != nil {
			event = Log.Error().Err(err).
				Str("kind", apperr.KindOf(err).String())
		}
		event.
			Str("field", fc.Field.Name).
			Str("path", fc.Path().String()).
			Dur("duration", time.Since(start)).
			Msg("resolver done")

		return res, err
	})
}
