package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// FollowAffinityBonus is added to the rank score of ads whose seller the
// viewer follows.
const FollowAffinityBonus = 1000

// DefaultRegistrationTTLHours is the lifetime announced to the discovery
// collaborator when a listing is synced.
const DefaultRegistrationTTLHours = 24
