// Package office exposes the spreadsheet automation model as Go proxies.
//
// Every type wraps one native object and embeds *proxy.Object, so it shares
// the same lifetime rules: Dispose releases the object and every child
// reached through it, reads after disposal return zero values or the enum's
// default, and writes are dropped.
//
// Children returned by accessors such as Application.Workbooks or
// Worksheet.Range belong to their parent. Proxies handed to event listeners,
// and back-references such as Workbook.Application or Chart.Parent, belong to
// the caller.
package office
