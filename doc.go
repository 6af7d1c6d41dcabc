// Package photoshare implements the account and session backend of a
// photo sharing service: registration, login, purposed token issuance
// and redemption, email verification, and password recovery, plus the
// image gallery the sessions exist for.
//
// Tokens:
//   - Every token carries a purpose tag (access, refresh, verify,
//     forgot) in its ttype claim. TokenService signs and verifies the
//     wire format; TokenFlow maps purposes to validity windows on issue
//     and to stored-state checks and side effects on redeem.
//   - A user has at most one live refresh token, stored on the user
//     record. Issuing a new one revokes the previous session's refresh
//     capability; outstanding access tokens run out their TTL.
//
// Sessions over HTTP:
//   - Authenticator drives the account flows and reports failures as
//     rich errors with stable text codes. The login path collapses
//     unknown emails and wrong passwords into one error so callers
//     cannot probe which addresses have accounts.
//   - RegisterAuthRoutes and RegisterGalleryRoutes mount the JSON API;
//     ProtectedRoute gates routes behind a valid access token and makes
//     the decoded Session available to handlers.
package photoshare
