/*
Package errors implements custom error interfaces for weave.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Extensions register their
own kinds with Register(code, description); x/escrow and x/cash are examples.

Code stands for ABCI error code, which allows to distinguish types of errors
on the client side and act accordingly.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error
	%s is just the error message
	%+v is the full stack trace
*/
package errors
