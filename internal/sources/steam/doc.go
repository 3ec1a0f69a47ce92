// Package steam adapts the Steam storefront to the metadata source contract.
//
// Artwork comes from the storefront CDN, whose URLs are deterministic for a
// known App ID, so imagery needs no network round-trip beyond optional
// screenshots. Descriptions come from the store appdetails endpoint, and
// install info from the local steamapps directory (appmanifest ACF files).
// Steam is the only source carrying install data.
package steam
