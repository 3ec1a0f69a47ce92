// Package rawg adapts the RAWG video game catalog to the metadata source
// contract. RAWG is the breadth source: it covers titles outside Steam and
// supplies descriptions and fallback imagery, but knows nothing about Steam
// App IDs or local installs.
package rawg
