package common

// AccessTokenHeaderName is the HTTP header used to carry the cast access
// token on outbound requests.
const AccessTokenHeaderName = "X-Cast-Access-Token"
