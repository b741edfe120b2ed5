package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth  = RouteApiV1 + "/auth"
	RouteLogin = RouteAuth + "/login"

	RouteUsers      = RouteApiV1 + "/users"
	RouteUser       = RouteUsers + "/:user_id"
	RouteUserAvatar = RouteUser + "/avatar"
	RouteUserPosts  = RouteUser + "/posts"

	RouteMedia     = RouteApiV1 + "/media"
	RouteMediaItem = RouteMedia + "/:media_id"

	RoutePosts = RouteApiV1 + "/posts"
	RoutePost  = RoutePosts + "/:post_id"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
