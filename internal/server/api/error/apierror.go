// Package apierror builds apitypes.ApiError values for packages that cannot
// import the api server package.
package apierror

import "github.com/Alia5/analogdpad/apitypes"

func ErrUnauthorized(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 401, Title: "Unauthorized", Detail: detail}
}

func ErrBadResponse(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 502, Title: "Bad Response", Detail: detail}
}
