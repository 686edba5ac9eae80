// Package domain contains the core business entities for deNoise:
// articles scraped from newsletters and the web, the chunks they are
// indexed as, user profiles, and the sentinel errors the services
// branch on. It has no dependencies on adapters or infrastructure.
package domain
