package rockauto

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := New(Options{
		BaseURL:       baseURL,
		MobileProfile: true,
		Logger:        testLogger(),
	})
	require.NoError(t, err)
	return client
}

const searchFormPage = `
<html><body>
<form>
<input type="hidden" name="_nck" value="form-token-1"/>
<select id="manufacturer_partsearch_007">
	<option value=""></option>
	<option value="">All</option>
	<option value="55">ACME</option>
	<option value="73">BOSCH</option>
</select>
<select id="partgroup_partsearch_007">
	<option value="">All</option>
	<option value="12">Brake &amp; Wheel Hub</option>
</select>
<select id="parttype_partsearch_007">
	<option value="">All</option>
	<option value="5">Rotor</option>
</select>
</form>
</body></html>`

const resultsPage = `
<html><body>
<div id="listingcontainer[0]">
	<a class="ra-btn ra-btn-moreinfo" href="/en/moreinfo.php?pk=1">Info</a>
	<span class="span-link-underline-remover">Brake Rotor Info</span>
	<span class="listing-final-manufacturer no-text-select">ACME</span>
	<span id="dprice[0][v]">$9.99</span>
	<span class="listing-final-partnumber no-text-select">12345</span>
	<img id="inlineimg_thumb[0]" src="/info/thumb1.jpg"/>
</div>
<div id="listingcontainer[1]">
	<a class="ra-btn ra-btn-moreinfo" href="https://example.com/part2">Info</a>
	<span class="span-link-underline-remover">Brake Pad Info</span>
	<span class="listing-final-partnumber no-text-select">67890</span>
</div>
</body></html>`
