// Package timezone holds the application timezone used to resolve booking
// dates that carry no offset.
//
// Usage:
//
//	if err := timezone.Init(cfg); err != nil { ... }  // once, at startup
//	now := timezone.Now()                             // current time in the app zone
//	t, err := timezone.Parse("2006-01-02", "2025-03-14")
//	loc := timezone.GetLocation()
//
// The zone is configured through APP_TIMEZONE and must be an IANA name such as
// "UTC", "Asia/Jakarta" or "Europe/London". Until Init runs every helper
// works in UTC.
package timezone
