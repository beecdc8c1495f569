// Package browser drives a chromium session through Playwright with the
// element helpers of a WebDriver client.
//
// # Session
//
// New installs the engine if needed, launches chromium with the configured
// window size, language, download directory and switches, and opens one
// window. The Driver remembers the current window and frame, so helpers such
// as FindElement or Script always act on what the user last switched to.
// Quit releases everything; Close only closes the current window.
//
// # Locators
//
// Every lookup takes a Locator built with exactly one strategy:
//
//	d.FindElement(browser.ID("login"))
//	d.FindElements(browser.Class("result"))
//	el.FindElement(browser.XPath(".//a"))
//
// # Waiting
//
// The Wait* helpers poll a Condition for up to the driver wait timeout
// (10 seconds by default). The same conditions plug into command.Retrier
// to retry an action until its effect is visible:
//
//	cond, _ := browser.URLMatches("https://example.com/home*")
//	err := retrier.Execute(ctx, d, cond, 2, browser.NavigateAction(d, "https://example.com"))
//
// # Downloads and dialogs
//
// Downloads are saved into the download directory once complete. Dialogs
// are queued until WaitAlert, SwitchToAlert or Confirm handles them.
package browser
