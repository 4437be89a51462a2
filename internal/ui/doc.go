// Package ui contains the Fyne desktop window of the thumbnail grabber.
// It only renders coordinator updates and forwards user input; every
// update is applied on the UI goroutine through fyne.Do.
package ui
