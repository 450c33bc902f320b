package hostbridge

/*
#include <stdlib.h>
#include <stdio.h>
#include <string.h>

typedef int (*nativeInvoker)(char const *name, char const *args, char *output, int outputSize);

// https://golang.org/cmd/cgo/#hdr-C_references_to_Go
static inline int runNativeInvoker(nativeInvoker fnc, char const *name, char const *args, char *output, int outputSize)
{
	return fnc(name, args, output, outputSize);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// invokerReplySize is the buffer handed to the host for each native reply.
const invokerReplySize = 4096

// called by the host to get the version of the extension
//
//export HostExtensionVersion
func HostExtensionVersion(output *C.char, outputsize C.size_t) {
	replyToSyncHostCall(Version(), output, outputsize)
}

// called by the host with a single command string, e.g. ":KEYDOWN:|70"
//
//export HostExtension
func HostExtension(output *C.char, outputsize C.size_t, input *C.char) {
	replyToSyncHostCall(HandleCommand(C.GoString(input)), output, outputsize)
}

// called by the host with a command and an argument array
//
//export HostExtensionArgs
func HostExtensionArgs(output *C.char, outputsize C.size_t, input *C.char, argv **C.char, argc C.int) {
	command := C.GoString(input)
	args := parseArgsFromC(argv, argc)
	replyToSyncHostCall(HandleArgs(command, args), output, outputsize)
}

// called by the host once to register its native invoker
//
//export HostExtensionRegisterInvoker
func HostExtensionRegisterInvoker(fnc C.nativeInvoker) {
	if fnc == nil {
		SetCaller(nil)
		return
	}
	SetCaller(func(name string, args []byte) ([]byte, error) {
		return invokeNative(fnc, name, args)
	})
}

// invokeNative calls the host invoker, which writes the JSON reply into buf
// and returns its length, or a negative error code.
func invokeNative(fnc C.nativeInvoker, name string, args []byte) ([]byte, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cArgs := C.CString(string(args))
	defer C.free(unsafe.Pointer(cArgs))

	buf := (*C.char)(C.malloc(invokerReplySize))
	defer C.free(unsafe.Pointer(buf))

	n := C.runNativeInvoker(fnc, cName, cArgs, buf, invokerReplySize)
	if n < 0 {
		return nil, fmt.Errorf("native %s failed with code %d", name, int(n))
	}
	if int(n) > invokerReplySize {
		return nil, fmt.Errorf("native %s reply of %d bytes exceeds buffer", name, int(n))
	}
	return C.GoBytes(unsafe.Pointer(buf), n), nil
}

// parseArgsFromC converts C argv array to Go string slice
func parseArgsFromC(argv **C.char, argc C.int) []string {
	var offset = unsafe.Sizeof(uintptr(0))
	var data []string
	for index := C.int(0); index < argc; index++ {
		data = append(data, C.GoString(*argv))
		argv = (**C.char)(unsafe.Pointer(uintptr(unsafe.Pointer(argv)) + offset))
	}
	return data
}

// replyToSyncHostCall will respond to a synchronous extension call from the host
func replyToSyncHostCall(response string, output *C.char, outputsize C.size_t) {
	result := C.CString(response)
	defer C.free(unsafe.Pointer(result))
	var size = C.strlen(result) + 1
	if size > outputsize {
		size = outputsize
	}
	C.memmove(unsafe.Pointer(output), unsafe.Pointer(result), size)
}
