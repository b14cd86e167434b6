/*
Package risksdk provides a client SDK for the credit-risk verdict service.

# Overview

The SDK wraps the JSON API exposed under /v1. An SDKClient performs
unauthenticated calls (health, schema, login) and a Session carries the
bearer token returned by a successful login:

	client := risksdk.NewSDKClient("http://localhost:8080")

	session, err := client.Login(ctx, "admin", "admin123")
	if err != nil {
		// *risksdk.APIError with Code "invalid_credentials"
	}

	verdict, err := session.Predict(ctx, risksdk.PredictionRequest{
		Age:             30,
		Sex:             "male",
		Job:             1,
		Housing:         "own",
		SavingAccount:   "little",
		CheckingAccount: "little",
		CreditAmount:    1000,
		DurationMonths:  12,
	})

Deployments running without authentication accept SDKClient.Predict directly.

# Errors

Every non-2xx response is returned as an *APIError carrying the HTTP status,
the machine-readable error code and its description:

	var apiErr *risksdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == risksdk.ErrorCodeEncoding {
		// one of the categorical values is not accepted
	}

The same type is used by the service to write its error responses, so the
codes seen by the client always match the ones produced by the server.
*/
package risksdk
